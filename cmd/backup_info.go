package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/feederco/innobackup-showinfo/pkg"
)

const xtrabackupInfoFile = "xtrabackup_info"

const (
	paramToolName    = "tool_name"
	paramStartTime   = "start_time"
	paramIncremental = "incremental"
	paramFromLSN     = "innodb_from_lsn"
	paramToLSN       = "innodb_to_lsn"
)

const paramIsSet = "Y"
const paramIsNotSet = "N"

const defaultToolName = "innobackupex"

const maxInfoLineLength = 1 << 20

// Options that may be enabled in a backup we know how to restore
var supportedParams = map[string]bool{
	paramIncremental: true,
}

var requiredParams = []string{paramToolName, paramStartTime, paramIncremental}

func readBackupInfo(filePath string, toolNames []string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &pkg.AccessError{Path: filePath, Err: err}
	}
	defer file.Close()

	return parseBackupInfo(file, filePath, toolNames)
}

// parseBackupInfo reads `key = value` lines. source is only used in errors.
func parseBackupInfo(reader io.Reader, source string, toolNames []string) (map[string]string, error) {
	params := make(map[string]string)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInfoLineLength)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		statementPieces := strings.SplitN(line, "=", 2)
		if len(statementPieces) != 2 {
			return nil, &SchemaError{
				FilePath: source,
				Param:    line,
				Reason:   fmt.Sprintf("Line %d is not a \"key = value\" pair.", lineNumber),
			}
		}

		param := strings.TrimSpace(statementPieces[0])
		value := strings.TrimSpace(statementPieces[1])

		if err := checkBackupParam(param, value, source, toolNames); err != nil {
			return nil, err
		}

		params[param] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", source, err)
	}

	for _, required := range requiredParams {
		if _, ok := params[required]; !ok {
			return nil, &SchemaError{
				FilePath: source,
				Param:    required,
				Reason:   fmt.Sprintf("Required param %q is missing.", required),
			}
		}
	}

	if incremental := params[paramIncremental]; incremental != paramIsSet && incremental != paramIsNotSet {
		return nil, &SchemaError{
			FilePath: source,
			Param:    paramIncremental,
			Value:    incremental,
			Reason:   fmt.Sprintf("Param %q must be %s or %s, found %q.", paramIncremental, paramIsSet, paramIsNotSet, incremental),
		}
	}

	return params, nil
}

func checkBackupParam(param string, value string, source string, toolNames []string) error {
	if supportedParams[param] {
		return nil
	}

	if param == paramToolName {
		for _, toolName := range toolNames {
			if value == toolName {
				return nil
			}
		}

		return &SchemaError{
			FilePath: source,
			Param:    param,
			Value:    value,
			Reason:   fmt.Sprintf("%q %q is not supported.", param, value),
		}
	}

	if value == paramIsSet {
		return &SchemaError{
			FilePath: source,
			Param:    param,
			Value:    value,
			Reason:   fmt.Sprintf("Enabled param %q is not supported.", param),
		}
	}

	return nil
}
