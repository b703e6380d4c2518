package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"io/ioutil"
	"os"

	"github.com/feederco/innobackup-showinfo/pkg"
)

const defaultConfigPath = "/etc/innobackup-showinfo.json"

const digitalOceanTokenEnv = "DIGITALOCEAN_ACCESS_TOKEN"

const (
	defaultDefaultsFile = "/etc/mysql/my.cnf"
	defaultUserCnf      = "~/.my.cnf"
)

// ConfigStruct contains information that can be preloaded from a .json file
type ConfigStruct struct {
	DefaultsFile string   `json:"defaults_file"`
	UserCnf      string   `json:"user_cnf"`
	ToolNames    []string `json:"tool_names"`
	ApplyTool    string   `json:"apply_tool"`
	OnDuplicate  string   `json:"on_duplicate"`

	DOKey           string `json:"do_key"`
	DOSpaceEndpoint string `json:"do_space_endpoint"`
	DOSpaceName     string `json:"do_space_name"`
	DOSpaceKey      string `json:"do_space_key"`
	DOSpaceSecret   string `json:"do_space_secret"`

	Alerting *pkg.AlertingConfig `json:"alerting"`
}

func loadConfig(args []string) (ConfigStruct, error) {
	configFlag := flag.String("config", "", "Path to a config file to load default configs from. (Default: "+defaultConfigPath+")")

	defaultsFileFlag := flag.String("defaults-file", "", "Path to the MySQL server defaults-file (Default: "+defaultDefaultsFile+")")
	userCnfFlag := flag.String("user-cnf", "", "Path to the MySQL user cnf holding credentials (Default: "+defaultUserCnf+")")
	applyToolFlag := flag.String("apply-tool", "", "Tool used in restore commands: innobackupex or xtrabackup (Default: innobackupex)")
	onDuplicateFlag := flag.String("on-duplicate", "", "What to do with backups sharing a start_time: error or overwrite (Default: error)")

	doKeyFlag := flag.String("do-key", "", "DigitalOcean OAuth2 key created in \"Applications & API\"")
	doSpaceEndpointFlag := flag.String("do-space-endpoint", "", "DigitalOcean Space endpoint backups were uploaded to")
	doSpaceNameFlag := flag.String("do-space-name", "", "DigitalOcean Space bucket name")
	doSpaceKeyFlag := flag.String("do-space-key", "", "DigitalOcean Space key")
	doSpaceSecretFlag := flag.String("do-space-secret", "", "DigitalOcean Space secret")

	err := pkg.ParseCommandLineFlags(args)
	if err != nil {
		return ConfigStruct{}, err
	}

	configStruct := ConfigStruct{}

	if *configFlag != "" {
		var didExist bool
		configStruct, didExist, err = loadConfigAtPath(*configFlag)
		if !didExist {
			return configStruct, errors.New("Could not load file from -config flag: " + *configFlag)
		}

		if err != nil {
			return configStruct, err
		}
	} else {
		var didExist bool
		configStruct, didExist, err = loadConfigAtPath(defaultConfigPath)

		// If default file doesn't exist we don't error. But if it does and is broken we error.
		if didExist && err != nil {
			return configStruct, err
		}
	}

	if configStruct.DefaultsFile == "" {
		configStruct.DefaultsFile = defaultDefaultsFile
	}

	if configStruct.UserCnf == "" {
		configStruct.UserCnf = defaultUserCnf
	}

	if len(configStruct.ToolNames) == 0 {
		configStruct.ToolNames = []string{defaultToolName}
	}

	if configStruct.ApplyTool == "" {
		configStruct.ApplyTool = applyToolInnobackupex
	}

	if configStruct.OnDuplicate == "" {
		configStruct.OnDuplicate = onDuplicateError
	}

	if *defaultsFileFlag != "" {
		configStruct.DefaultsFile = *defaultsFileFlag
	}

	if *userCnfFlag != "" {
		configStruct.UserCnf = *userCnfFlag
	}

	if *applyToolFlag != "" {
		configStruct.ApplyTool = *applyToolFlag
	}

	if *onDuplicateFlag != "" {
		configStruct.OnDuplicate = *onDuplicateFlag
	}

	if *doKeyFlag != "" {
		configStruct.DOKey = *doKeyFlag
	}

	if configStruct.DOKey == "" {
		configStruct.DOKey = os.Getenv(digitalOceanTokenEnv)
	}

	if *doSpaceEndpointFlag != "" {
		configStruct.DOSpaceEndpoint = *doSpaceEndpointFlag
	}

	if *doSpaceNameFlag != "" {
		configStruct.DOSpaceName = *doSpaceNameFlag
	}

	if *doSpaceKeyFlag != "" {
		configStruct.DOSpaceKey = *doSpaceKeyFlag
	}

	if *doSpaceSecretFlag != "" {
		configStruct.DOSpaceSecret = *doSpaceSecretFlag
	}

	if configStruct.ApplyTool != applyToolInnobackupex && configStruct.ApplyTool != applyToolXtrabackup {
		return configStruct, errors.New("Invalid apply_tool: " + configStruct.ApplyTool)
	}

	if configStruct.OnDuplicate != onDuplicateError && configStruct.OnDuplicate != onDuplicateOverwrite {
		return configStruct, errors.New("Invalid on_duplicate: " + configStruct.OnDuplicate)
	}

	return configStruct, nil
}

func loadConfigAtPath(path string) (ConfigStruct, bool, error) {
	var configStruct ConfigStruct

	configFile, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return configStruct, false, nil
	}

	if err != nil {
		return configStruct, true, errors.New("Could not read config file: " + err.Error())
	}

	if err = json.Unmarshal(configFile, &configStruct); err != nil {
		return configStruct, true, errors.New("Could not load config file. JSON decode failed: " + err.Error())
	}

	return configStruct, true, nil
}
