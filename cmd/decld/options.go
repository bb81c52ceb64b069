package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/danmuck/decld/internal/logging"
)

type options struct {
	help    bool
	version bool

	logger         string
	syslogFacility string
	syslogIdent    string

	loglevel      zerolog.Level
	loglevelSet   bool
	channelLevels map[logging.Channel]zerolog.Level

	configFile string
}

// parseArguments walks argv by hand: --channel-loglevel takes two operands,
// which the flag package cannot express.
func parseArguments(args []string) (options, error) {
	opts := options{
		logger:         "stdout",
		syslogFacility: "daemon",
		syslogIdent:    "decld",
		channelLevels:  make(map[logging.Channel]zerolog.Level),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help":
			opts.help = true
		case "--version":
			opts.version = true
		case "--logger":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("%s: requires an argument", arg)
			}
			switch args[i+1] {
			case "stdout", "syslog":
				opts.logger = args[i+1]
			default:
				return options{}, fmt.Errorf("%s: wrong argument", arg)
			}
			i++
		case "--syslog-facility":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("%s: requires an argument", arg)
			}
			opts.syslogFacility = args[i+1]
			i++
		case "--syslog-ident":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("%s: requires an argument", arg)
			}
			opts.syslogIdent = args[i+1]
			i++
		case "--loglevel":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("%s: requires an argument", arg)
			}
			level, ok := logging.ParseLevel(args[i+1])
			if !ok {
				return options{}, fmt.Errorf("%s: wrong argument", arg)
			}
			opts.loglevel = level
			opts.loglevelSet = true
			i++
		case "--channel-loglevel":
			if i+2 >= len(args) {
				return options{}, fmt.Errorf("%s: requires two arguments", arg)
			}
			if !logging.KnownChannel(args[i+1]) {
				return options{}, fmt.Errorf("%s: wrong channel argument", arg)
			}
			level, ok := logging.ParseLevel(args[i+2])
			if !ok {
				return options{}, fmt.Errorf("%s: wrong loglevel argument", arg)
			}
			opts.channelLevels[logging.Channel(args[i+1])] = level
			i += 2
		case "--config-file":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("%s: requires an argument", arg)
			}
			opts.configFile = args[i+1]
			i++
		default:
			return options{}, fmt.Errorf("unknown option: %s", arg)
		}
	}

	if opts.help || opts.version {
		return opts, nil
	}

	if opts.configFile == "" {
		return options{}, fmt.Errorf("--config-file is required")
	}

	return opts, nil
}

func printHelp(w io.Writer, name string) {
	fmt.Fprintf(w,
		"Usage:\n"+
			"    %s\n"+
			"        [--help]\n"+
			"        [--version]\n"+
			"        [--logger <stdout/syslog>]\n"+
			"        (logger=syslog?\n"+
			"            [--syslog-facility <string>]\n"+
			"            [--syslog-ident <string>]\n"+
			"        )\n"+
			"        [--loglevel <0-5/none/error/warning/notice/info/debug>]\n"+
			"        [--channel-loglevel <channel-name> <0-5/none/error/warning/notice/info/debug>] ...\n"+
			"        --config-file <file>\n",
		name,
	)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "decld %s\n", version)
}
