package cmd

import (
	"fmt"
	"strings"

	"github.com/feederco/innobackup-showinfo/pkg"
	"github.com/go-ini/ini"
)

const shutdownPrivQuery = "select Shutdown_priv from mysql.user where user = SUBSTRING_INDEX(CURRENT_USER(),'@',1) and host = SUBSTRING_INDEX(CURRENT_USER(),'@',-1);"

// Sections read by the server itself, in lookup order
var serverSections = []string{"mysqld", "mysqld_safe", "server"}

// Options that describe the server process and must not be taken from client sections
var serverOnlyOptions = map[string]bool{
	"user":    true,
	"datadir": true,
}

type commandRunner func(cmdArgs ...string) (string, error)

// runCommand is replaced in tests
var runCommand commandRunner = pkg.PerformCommand

type loginParam struct {
	Flag   string
	Option string
}

var loginParamsSocket = []loginParam{
	{Flag: "-S", Option: "socket"},
}

var loginParamsTCP = []loginParam{
	{Flag: "-h", Option: "bind-address"},
	{Flag: "-P", Option: "port"},
}

// mysqlOptions is a parsed MySQL option file (my.cnf)
type mysqlOptions struct {
	path string
	file *ini.File
}

func loadMysqlOptions(path string) (*mysqlOptions, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
		KeyValueDelimiters:      "=",
	}, path)
	if err != nil {
		return nil, fmt.Errorf("could not parse defaults-file %s: %w", path, err)
	}

	return &mysqlOptions{path: path, file: file}, nil
}

// lookup finds an option in the server sections first, then in any section.
// Server only options are never read from client sections.
// MySQL treats `-` and `_` in option names the same.
func (o *mysqlOptions) lookup(option string) (*ini.Key, bool) {
	names := []string{option, strings.Replace(option, "-", "_", -1), strings.Replace(option, "_", "-", -1)}

	sections := []*ini.Section{}
	for _, name := range serverSections {
		if section, err := o.file.GetSection(name); err == nil {
			sections = append(sections, section)
		}
	}
	if !serverOnlyOptions[strings.Replace(option, "-", "_", -1)] {
		sections = append(sections, o.file.Sections()...)
	}

	for _, section := range sections {
		for _, name := range names {
			if section.HasKey(name) {
				return section.Key(name), true
			}
		}
	}

	return nil, false
}

func (o *mysqlOptions) has(option string) bool {
	_, found := o.lookup(option)
	return found
}

func (o *mysqlOptions) value(option string) (string, bool) {
	key, found := o.lookup(option)
	if !found {
		return "", false
	}
	return strings.Trim(key.String(), `"'`), true
}

func (o *mysqlOptions) requiredValue(option string) (string, error) {
	value, found := o.value(option)
	if !found || value == "" {
		return "", fmt.Errorf("Could not determine param %q in defaults-file %s.", option, o.path)
	}
	return value, nil
}

// resolveLoginParams decides how mysqladmin connects to shut the server down.
// A readable user cnf is only used once the server confirms its user holds Shutdown_priv.
func resolveLoginParams(userCnfPath string, options *mysqlOptions, run commandRunner) ([]string, error) {
	if pkg.IsReadable(userCnfPath) {
		defaultsFileParam := "--defaults-file=" + userCnfPath
		cmdArgs := []string{"mysql", defaultsFileParam, "-NBe", shutdownPrivQuery}

		output, err := run(cmdArgs...)
		if err != nil {
			return nil, &ExternalCommandError{Command: cmdArgs, Err: err}
		}

		if strings.TrimRight(output, "\r\n") != paramIsSet {
			return nil, &ExternalCommandError{Command: cmdArgs, Output: output}
		}

		return []string{defaultsFileParam}, nil
	}

	pkg.Verbosef("%s is not readable, reading connection params from %s\n", userCnfPath, options.path)

	params := loginParamsTCP
	if options.has("skip-networking") {
		params = loginParamsSocket
	}

	var loginParams []string
	for _, param := range params {
		value, found := options.value(param.Option)
		if found && value != "" {
			loginParams = append(loginParams, param.Flag, value)
		}
	}

	return append(loginParams, "-p"), nil
}
