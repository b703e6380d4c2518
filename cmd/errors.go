package cmd

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errTargetNotIndexed = errors.New("backup is not part of the scanned directories")
	errTargetIsFull     = errors.New("backup is a full backup, there is no incremental chain to apply")
	errChainIncomplete  = errors.New("target was not reached while walking the chain in chronological order")
)

// SchemaError is returned for an xtrabackup_info file we refuse to restore from
type SchemaError struct {
	FilePath string
	Param    string
	Value    string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s --> %s", e.FilePath, e.Reason)
}

// EmptyResultError is returned when no backup was found in any searched location
type EmptyResultError struct {
	Locations []string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("Could not find any %q file in [%s].", xtrabackupInfoFile, strings.Join(e.Locations, ", "))
}

// LineageGapError is returned when no full backup precedes the target incremental
type LineageGapError struct {
	Target string
}

func (e *LineageGapError) Error() string {
	return fmt.Sprintf("%s --> ERROR: Could not find related full backup. Consider using \"-additional-dir\" to point at the parent dir of the full backups.", e.Target)
}

// DuplicateStartTimeError is returned when two backups share a start time
type DuplicateStartTimeError struct {
	StartTime string
	First     string
	Second    string
}

func (e *DuplicateStartTimeError) Error() string {
	return fmt.Sprintf("%s and %s share the start_time %q, cannot tell them apart (set \"on_duplicate\" to \"overwrite\" to keep the last one)", e.First, e.Second, e.StartTime)
}

// BrokenChainError is returned when an incremental does not continue from the previous link
type BrokenChainError struct {
	Previous backupRecord
	Next     backupRecord
}

func (e *BrokenChainError) Error() string {
	return fmt.Sprintf("%s --> ERROR: starts at LSN %s but %s ends at LSN %s, the chain is broken", e.Next.Directory, e.Next.FromLSN, e.Previous.Directory, e.Previous.ToLSN)
}

// ExternalCommandError is returned when the privilege check fails or answers unexpectedly
type ExternalCommandError struct {
	Command []string
	Output  string
	Err     error
}

func (e *ExternalCommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ERROR on executing: %q: %v", strings.Join(e.Command, " "), e.Err)
	}
	return fmt.Sprintf("ERROR on executing: %q: unexpected output %q", strings.Join(e.Command, " "), e.Output)
}

func (e *ExternalCommandError) Unwrap() error {
	return e.Err
}
