package goless

import (
	"io"
	"log"
	"os"
)

// Logger is the package-wide optional sink for diagnostic messages (§5
// "the log file (opened on demand)"). It starts silent: nothing is
// written until OpenLogFile attaches a destination, matching the pager's
// default of logging nothing to a terminal the user is actively reading.
var Logger = log.New(io.Discard, "", 0)

// OpenLogFile attaches Logger to path, appending if appendMode is set and
// truncating otherwise. It does not mark any option non-toggleable; a
// later call simply attaches Logger to another file.
func OpenLogFile(path string, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	Logger = log.New(f, "", log.LstdFlags)
	return nil
}
