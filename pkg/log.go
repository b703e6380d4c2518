package pkg

import (
	"io/ioutil"
	"log"
)

// VerboseMode is a global switch to turn verbose mode off or on
var VerboseMode bool

// Log is the default log to use
var Log = log.New(ioutil.Discard, "", log.LstdFlags)

// ErrorLog is the default error log to use
var ErrorLog = log.New(ioutil.Discard, "", log.LstdFlags)

// Verbosef logs to Log only when verbose mode is on
func Verbosef(format string, v ...interface{}) {
	if !VerboseMode {
		return
	}
	Log.Printf(format, v...)
}
