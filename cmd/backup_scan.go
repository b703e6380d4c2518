package cmd

import (
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/feederco/innobackup-showinfo/pkg"
)

type objectSource interface {
	ListObjectKeys(prefix string) ([]string, error)
	OpenObject(key string) (io.ReadCloser, error)
}

const (
	uploadedBackupPrefix      = "mysql-backup-"
	uploadedBackupExtension   = "xbstream"
	uploadedBackupTimeFormat  = "200601021504"
	uploadedBackupFull        = "full"
	uploadedBackupIncremental = "incremental"
	xtrabackupStartTimeFormat = "2006-01-02 15:04:05"
)

// scanBackupDirectories walks every root and adds each backup carrying an xtrabackup_info to index
func scanBackupDirectories(roots []string, index *backupIndex, toolNames []string) error {
	var infoFiles []string

	for _, root := range roots {
		err := pkg.CheckReadable(root)
		if err != nil {
			return err
		}

		err = filepath.Walk(root, func(filePath string, info os.FileInfo, err error) error {
			if err != nil {
				return &pkg.AccessError{Path: filePath, Err: err}
			}

			// Working copies left behind by an earlier restore carry the full backup's info file
			if info.IsDir() && filePath != root && strings.HasSuffix(info.Name(), mergedSuffix) {
				pkg.Verbosef("Skipping working copy %s\n", filePath)
				return filepath.SkipDir
			}

			if !info.IsDir() && info.Name() == xtrabackupInfoFile {
				infoFiles = append(infoFiles, filePath)
			}
			return nil
		})

		if err != nil {
			return err
		}
	}

	pkg.Verbosef("%d %s files found in %v\n", len(infoFiles), xtrabackupInfoFile, roots)

	progress := pkg.NewProgressReporter("Reading backup info ", len(infoFiles))
	defer progress.Finish()

	for _, filePath := range infoFiles {
		params, err := readBackupInfo(filePath, toolNames)
		if err != nil {
			return err
		}

		err = index.add(newBackupRecord(filepath.Dir(filePath), params, sourceLocal))
		if err != nil {
			return err
		}

		progress.Increment()
	}

	return nil
}

// scanBucket adds every backup uploaded under prefix to index.
// Uploads are named mysql-backup-<YYYYMMDDhhmm>.<full|incremental>.xbstream, unpacked
// backup directories are recognized by their xtrabackup_info object.
// Locations of bucket backups are reported as s3://bucket/key.
func scanBucket(storage objectSource, bucketName string, prefix string, index *backupIndex, toolNames []string) error {
	keys, err := storage.ListObjectKeys(prefix)
	if err != nil {
		return err
	}

	pkg.Verbosef("%d objects found in %s\n", len(keys), bucketLocation(bucketName, prefix))

	progress := pkg.NewProgressReporter("Reading bucket backups ", len(keys))
	defer progress.Finish()

	for _, key := range keys {
		progress.Increment()

		var record backupRecord

		if path.Base(key) == xtrabackupInfoFile {
			params, err := readBucketBackupInfo(storage, key, bucketLocation(bucketName, key), toolNames)
			if err != nil {
				return err
			}
			record = newBackupRecord(bucketLocation(bucketName, path.Dir(key)), params, sourceBucket)
		} else {
			startTime, incremental, err := parseUploadedBackupName(key)
			if err != nil {
				continue
			}
			record = backupRecord{
				StartTime:   startTime.Format(xtrabackupStartTimeFormat),
				Directory:   bucketLocation(bucketName, key),
				Incremental: incremental,
				Source:      sourceBucket,
			}
		}

		err = index.add(record)
		if err != nil {
			return err
		}
	}

	return nil
}

// parseUploadedBackupName reads the start time and backup type from an uploaded backup's object name
func parseUploadedBackupName(key string) (time.Time, bool, error) {
	fileName := path.Base(key)
	pieces := strings.Split(fileName, ".")

	if len(pieces) != 3 || pieces[2] != uploadedBackupExtension {
		return time.Time{}, false, errors.New("Incorrect format for filename: " + fileName)
	}

	if !strings.HasPrefix(pieces[0], uploadedBackupPrefix) {
		return time.Time{}, false, errors.New("Incorrect prefix for filename: " + fileName)
	}

	startTime, err := time.Parse(uploadedBackupTimeFormat, strings.TrimPrefix(pieces[0], uploadedBackupPrefix))
	if err != nil {
		return time.Time{}, false, err
	}

	switch pieces[1] {
	case uploadedBackupFull:
		return startTime, false, nil
	case uploadedBackupIncremental:
		return startTime, true, nil
	}

	return time.Time{}, false, errors.New("Incorrect backup type: " + pieces[1])
}

func readBucketBackupInfo(storage objectSource, key string, location string, toolNames []string) (map[string]string, error) {
	object, err := storage.OpenObject(key)
	if err != nil {
		return nil, &pkg.AccessError{Path: location, Err: err}
	}
	defer object.Close()

	return parseBackupInfo(object, location, toolNames)
}

func bucketLocation(bucketName string, key string) string {
	return "s3://" + path.Join(bucketName, key)
}
