package pkg

import (
	"bytes"
	"flag"
	"fmt"
	"os/exec"
	"strings"
)

const commandErrorTailLines = 3

// ParseCommandLineFlags parsed flags defined by `flag` package. Required to work with sub-commands
func ParseCommandLineFlags(args []string) error {
	// If a commandline app works like this: ./app subcommand -flag -flag2
	// `flag.Parse` won't parse anything after `subcommand`.
	// Find the first arg that has a dash so we know when to start parsing.
	firstArgWithDash := len(args)
	for i := 0; i < len(args); i++ {
		if len(args[i]) > 0 && args[i][0] == '-' {
			firstArgWithDash = i
			break
		}
	}

	return flag.CommandLine.Parse(args[firstArgWithDash:])
}

// CommandError is returned by PerformCommand when the command could not run or exited non-zero
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ERROR on executing: %q: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("ERROR on executing: %q: %v\n%s", e.Command, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// PerformCommand runs a command and returns what it wrote to stdout.
// Output is captured, never echoed, since stdout of this program is reserved for the report.
func PerformCommand(cmdArgs ...string) (string, error) {
	Verbosef("== `%s`\n", strings.Join(cmdArgs, " "))

	var stdout, stderr bytes.Buffer

	cmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", &CommandError{
			Command: strings.Join(cmdArgs, " "),
			Stderr:  lastLines(strings.Split(strings.TrimRight(stderr.String(), "\n"), "\n"), commandErrorTailLines),
			Err:     err,
		}
	}

	return stdout.String(), nil
}

func lastLines(lines []string, count int) string {
	if len(lines) > count {
		lines = lines[len(lines)-count:]
	}
	return strings.Join(lines, "\n")
}
