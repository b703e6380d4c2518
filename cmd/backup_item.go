package cmd

import (
	"sort"

	"github.com/feederco/innobackup-showinfo/pkg"
)

const (
	sourceLocal  = "local"
	sourceBucket = "bucket"
)

const (
	onDuplicateError     = "error"
	onDuplicateOverwrite = "overwrite"
)

type backupRecord struct {
	StartTime   string
	Directory   string
	Incremental bool

	// Empty when the backup tool did not record them
	FromLSN string
	ToLSN   string

	Source string

	// Bucket locations holding an upload of this same backup
	Copies []string
}

func newBackupRecord(directory string, params map[string]string, source string) backupRecord {
	return backupRecord{
		StartTime:   params[paramStartTime],
		Directory:   directory,
		Incremental: params[paramIncremental] == paramIsSet,
		FromLSN:     params[paramFromLSN],
		ToLSN:       params[paramToLSN],
		Source:      source,
	}
}

// Kind is the label used in the overview
func (r backupRecord) Kind() string {
	if r.Incremental {
		return "Incr"
	}
	return "Full"
}

// backupIndex maps start_time to the backup taken at that time
type backupIndex struct {
	records     map[string]backupRecord
	onDuplicate string
}

func newBackupIndex(onDuplicate string) *backupIndex {
	return &backupIndex{
		records:     make(map[string]backupRecord),
		onDuplicate: onDuplicate,
	}
}

func (idx *backupIndex) add(record backupRecord) error {
	existing, found := idx.records[record.StartTime]
	if found && isUploadOf(existing, record) {
		idx.records[record.StartTime] = mergeUpload(existing, record)
		return nil
	}

	if found && existing.Directory != record.Directory {
		if idx.onDuplicate != onDuplicateOverwrite {
			return &DuplicateStartTimeError{
				StartTime: record.StartTime,
				First:     existing.Directory,
				Second:    record.Directory,
			}
		}

		pkg.ErrorLog.Printf("Warning: %s replaces %s, both started at %s\n", record.Directory, existing.Directory, record.StartTime)
	}

	idx.records[record.StartTime] = record
	return nil
}

// isUploadOf reports whether one record is the bucket copy of the other
func isUploadOf(a backupRecord, b backupRecord) bool {
	if a.Source == b.Source || a.Incremental != b.Incremental {
		return false
	}
	return a.Source == sourceBucket || b.Source == sourceBucket
}

// mergeUpload keeps the local record and remembers where its upload lives
func mergeUpload(a backupRecord, b backupRecord) backupRecord {
	local, upload := a, b
	if local.Source == sourceBucket {
		local, upload = b, a
	}

	local.Copies = append(append(local.Copies, upload.Directory), upload.Copies...)
	pkg.Verbosef("%s is the upload of %s\n", upload.Directory, local.Directory)

	return local
}

func (idx *backupIndex) Len() int {
	return len(idx.records)
}

// sorted returns the records ordered by start time
func (idx *backupIndex) sorted(descending bool) []backupRecord {
	records := make([]backupRecord, 0, len(idx.records))
	for _, record := range idx.records {
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if descending {
			return records[i].StartTime > records[j].StartTime
		}
		return records[i].StartTime < records[j].StartTime
	})

	return records
}
