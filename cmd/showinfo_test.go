package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func runBegin(t *testing.T, args ...string) (int, string, string) {
	logged := setupTest(t)

	var out bytes.Buffer
	exitCode := begin(append([]string{"innobackup-showinfo"}, args...), &out)

	return exitCode, out.String(), logged.String()
}

func TestBeginOverview(t *testing.T) {
	root := tempDir(t)
	full := writeBackup(t, filepath.Join(root, "full"), "2019-01-21 10:00:00", false, "", "")
	incr2 := writeBackup(t, filepath.Join(root, "incr-b"), "2019-01-21 12:00:00", true, "", "")
	incr1 := writeBackup(t, filepath.Join(root, "incr-a"), "2019-01-21 11:00:00", true, "", "")

	exitCode, out, logged := runBegin(t, "overview", "-backup-dir", root)
	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", exitCode, logged)
	}

	expected := "Overview of full and incremental:\n\n" +
		"Full --> " + full + "\n" +
		"Incr --> " + incr1 + "\n" +
		"Incr --> " + incr2 + "\n"

	if out != expected {
		t.Errorf("Incorrect overview:\n%s\nexpected\n%s", out, expected)
	}

	// Same tree, same output
	_, again, _ := runBegin(t, "overview", "-backup-dir", root)
	if again != out {
		t.Errorf("Overview is not stable:\n%s\n%s", out, again)
	}
}

func TestBeginOverviewSchemaViolation(t *testing.T) {
	root := tempDir(t)
	writeBackup(t, filepath.Join(root, "full"), "2019-01-21 10:00:00", false, "", "")
	writeFile(t, filepath.Join(root, "other", xtrabackupInfoFile), strings.Replace(testFullInfoContents, "tool_name = innobackupex", "tool_name = some_other_tool", 1))

	exitCode, out, logged := runBegin(t, "overview", "-backup-dir", root)
	if exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode)
	}

	if out != "" {
		t.Errorf("Expected no output, got %s", out)
	}

	if !strings.Contains(logged, `"tool_name" "some_other_tool" is not supported.`) {
		t.Errorf("Error not reported: %s", logged)
	}
}

func TestBeginOverviewEmpty(t *testing.T) {
	root := tempDir(t)

	exitCode, out, logged := runBegin(t, "overview", "-backup-dir", root)
	if exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode)
	}

	if out != "" {
		t.Errorf("Expected no output, got %s", out)
	}

	if !strings.Contains(logged, "Could not find any \"xtrabackup_info\" file in ["+root+"]") {
		t.Errorf("Error not reported: %s", logged)
	}
}

func TestBeginUsage(t *testing.T) {
	if exitCode, _, _ := runBegin(t); exitCode != 1 {
		t.Error("Expected usage to exit with 1")
	}

	if exitCode, _, logged := runBegin(t, "prune"); exitCode != 1 || !strings.Contains(logged, "Unknown command") {
		t.Errorf("Expected unknown command, got %d: %s", exitCode, logged)
	}

	if exitCode, _, logged := runBegin(t, "overview"); exitCode != 1 || !strings.Contains(logged, "-backup-dir") {
		t.Errorf("Expected missing -backup-dir, got %d: %s", exitCode, logged)
	}

	if exitCode, _, logged := runBegin(t, "restore", "-last-incr-dir", "/b/incr", "-backup-dir", "/b"); exitCode != 1 || !strings.Contains(logged, "can not be combined") {
		t.Errorf("Expected modes to be exclusive, got %d: %s", exitCode, logged)
	}
}

func TestBeginRestore(t *testing.T) {
	fullRoot := tempDir(t)
	incrRoot := tempDir(t)
	etc := tempDir(t)

	defaultsFile := filepath.Join(etc, "my.cnf")
	writeFile(t, defaultsFile, testMyCnfTCP)

	full := writeBackup(t, filepath.Join(fullRoot, "full"), "2019-01-21 10:00:00", false, "0", "1000")
	incr1 := writeBackup(t, filepath.Join(incrRoot, "incr1"), "2019-01-21 11:00:00", true, "1000", "2000")
	incr2 := writeBackup(t, filepath.Join(incrRoot, "incr2"), "2019-01-21 12:00:00", true, "2000", "3000")
	writeBackup(t, filepath.Join(incrRoot, "incr3"), "2019-01-21 13:00:00", true, "3000", "4000")

	timeNow = func() time.Time { return testRestoreTime }
	defer func() { timeNow = time.Now }()

	commonArgs := []string{
		"-last-incr-dir", incr2,
		"-defaults-file", defaultsFile,
		"-user-cnf", filepath.Join(etc, "missing.cnf"),
	}

	// The full backups live elsewhere
	exitCode, out, logged := runBegin(t, append([]string{"restore"}, commonArgs...)...)
	if exitCode != 1 || out != "" {
		t.Errorf("Expected a lineage gap, got %d: %s", exitCode, out)
	}
	if !strings.Contains(logged, incr2+" --> ERROR: Could not find related full backup") || !strings.Contains(logged, "-additional-dir") {
		t.Errorf("Lineage gap not reported: %s", logged)
	}

	exitCode, out, logged = runBegin(t, append([]string{"restore", "-additional-dir", fullRoot}, commonArgs...)...)
	if exitCode != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", exitCode, logged)
	}

	expected := "Restore commands:\n\n" +
		"mysqladmin -h 127.0.0.1 -P 3306 -p shutdown\n" +
		"mv /var/lib/mysql /var/lib/mysql_2019-01-23_20-39\n" +
		"mkdir /var/lib/mysql\n" +
		"# " + copyComment + "\n" +
		"cp -a " + full + " " + full + "_MERGED\n" +
		"innobackupex --defaults-file=" + defaultsFile + " --apply-log --redo-only " + full + "_MERGED\n" +
		"innobackupex --defaults-file=" + defaultsFile + " --apply-log --redo-only " + full + "_MERGED --incremental-dir=" + incr1 + "\n" +
		"innobackupex --defaults-file=" + defaultsFile + " --apply-log " + full + "_MERGED --incremental-dir=" + incr2 + "\n" +
		"innobackupex --defaults-file=" + defaultsFile + " --copy-back " + full + "_MERGED\n" +
		"chown -R mysql:mysql /var/lib/mysql\n"

	if out != expected {
		t.Errorf("Incorrect restore commands:\n%s\nexpected\n%s", out, expected)
	}
}

func TestBeginRestoreWrongDirectory(t *testing.T) {
	dir := tempDir(t)

	exitCode, out, logged := runBegin(t, "restore", "-last-incr-dir", dir)
	if exitCode != 1 || out != "" {
		t.Errorf("Expected failure without output, got %d: %s", exitCode, out)
	}

	if !strings.Contains(logged, "Specify the correct path to incr!") {
		t.Errorf("Error not reported: %s", logged)
	}
}
