//go:build !windows

package logging

import (
	"fmt"
	"io"
	"log/syslog"
	"strings"

	"github.com/rs/zerolog"
)

func newSyslogWriter(facility, ident string) (io.Writer, error) {
	prio, err := parseFacility(facility)
	if err != nil {
		return nil, err
	}
	w, err := syslog.New(prio|syslog.LOG_INFO, ident)
	if err != nil {
		return nil, err
	}
	return zerolog.SyslogLevelWriter(w), nil
}

func parseFacility(raw string) (syslog.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "daemon":
		return syslog.LOG_DAEMON, nil
	case "user":
		return syslog.LOG_USER, nil
	case "local0":
		return syslog.LOG_LOCAL0, nil
	case "local1":
		return syslog.LOG_LOCAL1, nil
	case "local2":
		return syslog.LOG_LOCAL2, nil
	case "local3":
		return syslog.LOG_LOCAL3, nil
	case "local4":
		return syslog.LOG_LOCAL4, nil
	case "local5":
		return syslog.LOG_LOCAL5, nil
	case "local6":
		return syslog.LOG_LOCAL6, nil
	case "local7":
		return syslog.LOG_LOCAL7, nil
	default:
		return 0, fmt.Errorf("unknown syslog facility %q", raw)
	}
}
