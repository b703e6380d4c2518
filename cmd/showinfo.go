package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/feederco/innobackup-showinfo/pkg"
)

const (
	commandOverview = "overview"
	commandRestore  = "restore"
)

// timeNow is replaced in tests
var timeNow = time.Now

type searchOptions struct {
	BackupDir     string
	LastIncrDir   string
	AdditionalDir string
	VolumeID      string
	BucketPrefix  string
}

// Begin runs the subcommand in cliArgs and returns the process exit code
func Begin(cliArgs []string) int {
	pkg.Log = log.New(os.Stderr, "", log.LstdFlags)
	pkg.ErrorLog = log.New(os.Stderr, "", log.LstdFlags)

	return begin(cliArgs, os.Stdout)
}

func begin(cliArgs []string, out io.Writer) int {
	args := cliArgs[1:]

	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		pkg.ErrorLog.Printf("Usage:\n%s overview|restore [flags]\n\n", filepath.Base(cliArgs[0]))
		return 1
	}

	backupDirFlag := flag.String("backup-dir", "", "[overview] Parent dir where all full and incr are located")
	lastIncrDirFlag := flag.String("last-incr-dir", "", "[restore] Dir of the last incr backup to be applied")
	additionalDirFlag := flag.String("additional-dir", "", "Parent dir of full or incr if one type is not located in the searched dir")
	volumeIDFlag := flag.String("volume-id", "", "DigitalOcean volume holding backups, searched under its mount point")
	bucketPrefixFlag := flag.String("bucket-prefix", "", "[overview] Also list backups uploaded under this prefix of the DigitalOcean Space")
	verboseFlag := flag.Bool("v", false, "Verbose logging")

	configStruct, err := loadConfig(args[1:])
	if err != nil {
		pkg.ErrorLog.Println(err)
		return 1
	}

	pkg.VerboseMode = *verboseFlag

	options := searchOptions{
		BackupDir:     *backupDirFlag,
		LastIncrDir:   *lastIncrDirFlag,
		AdditionalDir: *additionalDirFlag,
		VolumeID:      *volumeIDFlag,
		BucketPrefix:  *bucketPrefixFlag,
	}

	switch args[0] {
	case commandOverview:
		err = showOverview(out, options, configStruct)
	case commandRestore:
		err = showRestoreCommands(out, options, configStruct)
	default:
		pkg.ErrorLog.Println("Unknown command:", args[0])
		return 1
	}

	if err != nil {
		if configStruct.Alerting != nil {
			pkg.AlertError(configStruct.Alerting, "Could not run `"+args[0]+"`", err)
		} else {
			pkg.ErrorLog.Printf("Error running `%s`\n\n\t%v\n\n", args[0], err)
		}
		return 1
	}

	return 0
}

func showOverview(out io.Writer, options searchOptions, configStruct ConfigStruct) error {
	if options.BackupDir == "" {
		return errors.New("-backup-dir parameter required for `overview` command")
	}

	if options.LastIncrDir != "" {
		return errors.New("-last-incr-dir can not be combined with `overview`, use `restore`")
	}

	backupDir, err := pkg.AbsolutePath(options.BackupDir)
	if err != nil {
		return err
	}

	roots, err := searchRoots(backupDir, options, configStruct)
	if err != nil {
		return err
	}

	index := newBackupIndex(configStruct.OnDuplicate)
	locations := roots

	err = scanBackupDirectories(roots, index, configStruct.ToolNames)
	if err != nil {
		return err
	}

	if options.BucketPrefix != "" {
		if configStruct.DOSpaceName == "" || configStruct.DOSpaceEndpoint == "" {
			return errors.New("-do-space-name and -do-space-endpoint parameters required for -bucket-prefix")
		}

		storage, err := pkg.NewObjectStorage(configStruct.DOSpaceEndpoint, configStruct.DOSpaceKey, configStruct.DOSpaceSecret, configStruct.DOSpaceName)
		if err != nil {
			return fmt.Errorf("Could not construct minio client: %w", err)
		}

		err = scanBucket(storage, configStruct.DOSpaceName, options.BucketPrefix, index, configStruct.ToolNames)
		if err != nil {
			return err
		}

		locations = append(locations, bucketLocation(configStruct.DOSpaceName, options.BucketPrefix))
	}

	if index.Len() == 0 {
		return &EmptyResultError{Locations: locations}
	}

	records := overviewRecords(index)
	for _, record := range records {
		if record.Source != sourceLocal {
			continue
		}

		err = pkg.CheckReadable(record.Directory)
		if err != nil {
			return err
		}
	}

	fmt.Fprint(out, "Overview of full and incremental:\n\n")
	for _, record := range records {
		fmt.Fprintf(out, "%s --> %s\n", record.Kind(), record.Directory)
		for _, copyLocation := range record.Copies {
			fmt.Fprintf(out, "%s --> %s\n", record.Kind(), copyLocation)
		}
	}

	return nil
}

func showRestoreCommands(out io.Writer, options searchOptions, configStruct ConfigStruct) error {
	if options.LastIncrDir == "" {
		return errors.New("-last-incr-dir parameter required for `restore` command")
	}

	if options.BackupDir != "" {
		return errors.New("-backup-dir can not be combined with `restore`, use `overview`")
	}

	if options.BucketPrefix != "" {
		return errors.New("-bucket-prefix is only supported by `overview`, download the backups before restoring")
	}

	lastIncrDir, err := pkg.AbsolutePath(options.LastIncrDir)
	if err != nil {
		return err
	}

	infoFile, err := os.Open(filepath.Join(lastIncrDir, xtrabackupInfoFile))
	if err != nil {
		return fmt.Errorf("%v. Specify the correct path to incr!", err)
	}
	infoFile.Close()

	parentBackupDir := filepath.Dir(lastIncrDir)
	err = pkg.CheckReadable(parentBackupDir, lastIncrDir)
	if err != nil {
		return err
	}

	defaultsFile, err := pkg.AbsolutePath(configStruct.DefaultsFile)
	if err != nil {
		return err
	}

	err = pkg.CheckReadable(defaultsFile)
	if err != nil {
		return err
	}

	roots, err := searchRoots(parentBackupDir, options, configStruct)
	if err != nil {
		return err
	}

	index := newBackupIndex(configStruct.OnDuplicate)

	err = scanBackupDirectories(roots, index, configStruct.ToolNames)
	if err != nil {
		return err
	}

	if index.Len() == 0 {
		return &EmptyResultError{Locations: roots}
	}

	full, target, err := resolveAncestorFull(index, lastIncrDir)
	if err != nil {
		return err
	}

	pkg.Verbosef("Restoring %s on top of full backup %s\n", target.Directory, full.Directory)

	serverOptions, err := loadMysqlOptions(defaultsFile)
	if err != nil {
		return err
	}

	dataDir, err := serverOptions.requiredValue("datadir")
	if err != nil {
		return err
	}

	mysqldUser, err := serverOptions.requiredValue("user")
	if err != nil {
		return err
	}

	userCnf, err := pkg.AbsolutePath(configStruct.UserCnf)
	if err != nil {
		return err
	}

	loginParams, err := resolveLoginParams(userCnf, serverOptions, runCommand)
	if err != nil {
		return err
	}

	plan, err := planRestore(index, full, target, restoreSettings{
		DefaultsFile: defaultsFile,
		DataDir:      dataDir,
		MysqldUser:   mysqldUser,
		LoginParams:  loginParams,
		ApplyTool:    configStruct.ApplyTool,
		Timestamp:    timeNow(),
	})
	if err != nil {
		return err
	}

	for _, record := range plan.Chain {
		err = pkg.CheckReadable(record.Directory)
		if err != nil {
			return err
		}
	}

	fmt.Fprint(out, "Restore commands:\n\n")
	for _, line := range renderRestoreOperations(plan.Operations) {
		fmt.Fprintln(out, line)
	}

	return nil
}

// searchRoots is the main dir followed by the additional dir and the volume mount point, when given
func searchRoots(mainDir string, options searchOptions, configStruct ConfigStruct) ([]string, error) {
	roots := []string{mainDir}

	if options.AdditionalDir != "" {
		additionalDir, err := pkg.AbsolutePath(options.AdditionalDir)
		if err != nil {
			return nil, err
		}
		roots = append(roots, additionalDir)
	}

	if options.VolumeID != "" {
		digitalOceanClient, err := pkg.NewDigitalOceanClient(context.Background(), configStruct.DOKey, "")
		if err != nil {
			return nil, fmt.Errorf("-volume-id requires -do-key: %w", err)
		}

		thisHost, err := pkg.GetRunningInstanceData()
		if err != nil {
			return nil, fmt.Errorf("-volume-id requires running on a DigitalOcean droplet: %w", err)
		}

		volumeRoot, err := resolveVolumeSearchRoot(options.VolumeID, thisHost.DropletID, digitalOceanClient)
		if err != nil {
			return nil, err
		}
		roots = append(roots, volumeRoot)
	}

	return roots, nil
}
