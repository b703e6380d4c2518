package pkg

import (
	"fmt"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"golang.org/x/sys/unix"
)

// AccessError is returned when a path cannot be read by the current user
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s: is not readable. (%v)", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// CheckReadable checks read permissions for every passed path and fails on the first unreadable one
func CheckReadable(paths ...string) error {
	for _, path := range paths {
		if err := unix.Access(path, unix.R_OK); err != nil {
			return &AccessError{Path: path, Err: err}
		}
	}
	return nil
}

// IsReadable reports whether path can be read, without giving a reason
func IsReadable(path string) bool {
	return CheckReadable(path) == nil
}

// AbsolutePath expands a leading `~` and makes the path absolute and clean
func AbsolutePath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}

	return filepath.Abs(expanded)
}

