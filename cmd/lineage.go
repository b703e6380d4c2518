package cmd

import (
	"fmt"
)

func overviewRecords(index *backupIndex) []backupRecord {
	return index.sorted(false)
}

// resolveAncestorFull walks the backups from newest to oldest. Everything newer than the target is skipped,
// the first full backup older than the target is its ancestor.
func resolveAncestorFull(index *backupIndex, targetDirectory string) (backupRecord, backupRecord, error) {
	var target backupRecord
	targetFound := false

	for _, record := range index.sorted(true) {
		if !targetFound {
			if record.Directory != targetDirectory {
				continue
			}

			if !record.Incremental {
				return backupRecord{}, backupRecord{}, fmt.Errorf("%s: %w", targetDirectory, errTargetIsFull)
			}

			target = record
			targetFound = true
			continue
		}

		if !record.Incremental {
			return record, target, nil
		}
	}

	if !targetFound {
		return backupRecord{}, backupRecord{}, fmt.Errorf("%s: %w", targetDirectory, errTargetNotIndexed)
	}

	return backupRecord{}, target, &LineageGapError{Target: targetDirectory}
}
