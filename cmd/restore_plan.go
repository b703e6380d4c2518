package cmd

import (
	"fmt"
	"time"

	"github.com/alessio/shellescape"
)

const mergedSuffix = "_MERGED"

const datadirBackupTimeFormat = "2006-01-02_15-04"

const (
	applyToolInnobackupex = "innobackupex"
	applyToolXtrabackup   = "xtrabackup"
)

const copyComment = "Applying logs is irreversible and would destroy the backup history, therefore making a copy."

type operationKind int

const (
	opShutdown operationKind = iota
	opMoveDatadir
	opCreateDatadir
	opComment
	opCopy
	opApplyRedoOnly
	opApplyFinal
	opCopyBack
	opChown
)

type restoreOperation struct {
	Kind operationKind
	// Command line, or the comment text for opComment
	Args []string
}

type restoreSettings struct {
	DefaultsFile string
	DataDir      string
	MysqldUser   string
	LoginParams  []string
	ApplyTool    string
	Timestamp    time.Time
}

type restorePlan struct {
	Chain      []backupRecord
	Operations []restoreOperation
}

// buildRestoreChain returns full -> incr -> ... -> target in chronological order
func buildRestoreChain(index *backupIndex, full backupRecord, target backupRecord) ([]backupRecord, error) {
	var chain []backupRecord

	for _, record := range index.sorted(false) {
		if len(chain) == 0 {
			if record.Directory == full.Directory {
				chain = append(chain, record)
			}
			continue
		}

		if !record.Incremental {
			continue
		}

		previous := chain[len(chain)-1]
		if previous.ToLSN != "" && record.FromLSN != "" && previous.ToLSN != record.FromLSN {
			return nil, &BrokenChainError{Previous: previous, Next: record}
		}

		chain = append(chain, record)

		if record.Directory == target.Directory {
			return chain, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", target.Directory, errChainIncomplete)
}

// planRestore lists the commands to restore target on top of its ancestor full backup.
// The full backup is copied first, every link is applied with redo-only except the target itself.
func planRestore(index *backupIndex, full backupRecord, target backupRecord, settings restoreSettings) (restorePlan, error) {
	chain, err := buildRestoreChain(index, full, target)
	if err != nil {
		return restorePlan{}, err
	}

	tool := newApplyTool(settings.ApplyTool, settings.DefaultsFile)
	workingCopy := full.Directory + mergedSuffix

	shutdown := append([]string{"mysqladmin"}, settings.LoginParams...)

	operations := []restoreOperation{
		{Kind: opShutdown, Args: append(shutdown, "shutdown")},
		{Kind: opMoveDatadir, Args: []string{"mv", settings.DataDir, settings.DataDir + "_" + settings.Timestamp.Format(datadirBackupTimeFormat)}},
		{Kind: opCreateDatadir, Args: []string{"mkdir", settings.DataDir}},
		{Kind: opComment, Args: []string{copyComment}},
		{Kind: opCopy, Args: []string{"cp", "-a", full.Directory, workingCopy}},
		{Kind: opApplyRedoOnly, Args: tool.apply(workingCopy, "", true)},
	}

	for _, record := range chain[1:] {
		if record.Directory != target.Directory {
			operations = append(operations, restoreOperation{Kind: opApplyRedoOnly, Args: tool.apply(workingCopy, record.Directory, true)})
			continue
		}

		operations = append(operations,
			restoreOperation{Kind: opApplyFinal, Args: tool.apply(workingCopy, record.Directory, false)},
			restoreOperation{Kind: opCopyBack, Args: tool.copyBack(workingCopy)},
			restoreOperation{Kind: opChown, Args: []string{"chown", "-R", settings.MysqldUser + ":" + settings.MysqldUser, settings.DataDir}},
		)
	}

	return restorePlan{Chain: chain, Operations: operations}, nil
}

type applyTool struct {
	name         string
	defaultsFile string
}

func newApplyTool(name string, defaultsFile string) applyTool {
	if name == "" {
		name = applyToolInnobackupex
	}
	return applyTool{name: name, defaultsFile: defaultsFile}
}

func (t applyTool) apply(workingCopy string, incrementalDir string, redoOnly bool) []string {
	args := []string{t.name, "--defaults-file=" + t.defaultsFile}

	if t.name == applyToolXtrabackup {
		args = append(args, "--prepare")
		if redoOnly {
			args = append(args, "--apply-log-only")
		}
		args = append(args, "--target-dir="+workingCopy)
	} else {
		args = append(args, "--apply-log")
		if redoOnly {
			args = append(args, "--redo-only")
		}
		args = append(args, workingCopy)
	}

	if incrementalDir != "" {
		args = append(args, "--incremental-dir="+incrementalDir)
	}

	return args
}

func (t applyTool) copyBack(workingCopy string) []string {
	if t.name == applyToolXtrabackup {
		return []string{t.name, "--defaults-file=" + t.defaultsFile, "--copy-back", "--target-dir=" + workingCopy}
	}
	return []string{t.name, "--defaults-file=" + t.defaultsFile, "--copy-back", workingCopy}
}

// renderRestoreOperations turns the plan into shell lines
func renderRestoreOperations(operations []restoreOperation) []string {
	lines := make([]string, 0, len(operations))
	for _, operation := range operations {
		if operation.Kind == opComment {
			lines = append(lines, "# "+operation.Args[0])
			continue
		}
		lines = append(lines, shellescape.QuoteCommand(operation.Args))
	}
	return lines
}
