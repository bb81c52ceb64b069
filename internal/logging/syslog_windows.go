//go:build windows

package logging

import (
	"errors"
	"io"
)

func newSyslogWriter(facility, ident string) (io.Writer, error) {
	return nil, errors.New("syslog is not available on windows")
}
