package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/decld/internal/logging"
)

func TestParseArguments(t *testing.T) {
	opts, err := parseArguments([]string{
		"--logger", "syslog",
		"--syslog-facility", "local0",
		"--syslog-ident", "mydaemon",
		"--loglevel", "debug",
		"--channel-loglevel", "engine", "error",
		"--channel-loglevel", "http", "2",
		"--config-file", "/etc/decld.toml",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.logger != "syslog" || opts.syslogFacility != "local0" || opts.syslogIdent != "mydaemon" {
		t.Fatalf("logger options wrong: %+v", opts)
	}
	if !opts.loglevelSet || opts.loglevel != zerolog.TraceLevel {
		t.Fatalf("loglevel wrong: %+v", opts)
	}
	if opts.channelLevels[logging.ChannelEngine] != zerolog.ErrorLevel {
		t.Fatalf("engine channel level wrong")
	}
	if opts.channelLevels[logging.ChannelHTTP] != zerolog.WarnLevel {
		t.Fatalf("http channel level wrong")
	}
	if opts.configFile != "/etc/decld.toml" {
		t.Fatalf("config file %q", opts.configFile)
	}
}

func TestParseArgumentsFailures(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{}, "--config-file is required"},
		{[]string{"--logger"}, "requires an argument"},
		{[]string{"--logger", "journal"}, "wrong argument"},
		{[]string{"--loglevel", "verbose"}, "wrong argument"},
		{[]string{"--channel-loglevel", "engine"}, "requires two arguments"},
		{[]string{"--channel-loglevel", "bogus", "debug"}, "wrong channel argument"},
		{[]string{"--channel-loglevel", "engine", "bogus"}, "wrong loglevel argument"},
		{[]string{"--frobnicate"}, "unknown option"},
	}
	for i, c := range cases {
		_, err := parseArguments(c.args)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("case %d: error %v does not mention %q", i, err, c.want)
		}
	}
}

func TestHelpAndVersionSkipValidation(t *testing.T) {
	opts, err := parseArguments([]string{"--help"})
	if err != nil || !opts.help {
		t.Fatalf("help: %+v, %v", opts, err)
	}
	opts, err = parseArguments([]string{"--version"})
	if err != nil || !opts.version {
		t.Fatalf("version: %+v, %v", opts, err)
	}
}
