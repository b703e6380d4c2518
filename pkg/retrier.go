package pkg

import (
	"errors"
	"time"
)

const maxTries = 5

var sleep = time.Sleep

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks an error that WithRetry must not retry
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// WithRetry runs runner, and if it returns an error waits, then tries again.
// Errors wrapped with Permanent stop the loop immediately and are returned unwrapped.
func WithRetry(tag string, runner func() error) error {
	var err error
	for tries := 0; tries < maxTries; tries++ {
		err = runner()
		if err == nil {
			return nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return permanent.err
		}

		waitDuration := getWaitTime(tries)

		Verbosef("%s try: %d, failed with error (%v), sleeping %s\n", tag, tries, err, waitDuration)

		// Wait exponentially 500 * x^2 milliseconds
		sleep(waitDuration)
	}
	return err
}

func getWaitTime(tries int) time.Duration {
	return time.Duration(500*tries*tries) * time.Millisecond
}
