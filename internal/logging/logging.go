package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Channel names one compile-time log channel. Every package logs through
// exactly one channel; per-channel levels are settable independently.
type Channel string

const (
	ChannelDaemon Channel = "daemon"
	ChannelEngine Channel = "engine"
	ChannelModule Channel = "module"
	ChannelConfig Channel = "config"
	ChannelHTTP   Channel = "http"
)

// Channels returns all known channels in a stable order.
func Channels() []Channel {
	return []Channel{ChannelDaemon, ChannelEngine, ChannelModule, ChannelConfig, ChannelHTTP}
}

// KnownChannel reports whether name is a defined channel.
func KnownChannel(name string) bool {
	for _, ch := range Channels() {
		if string(ch) == name {
			return true
		}
	}
	return false
}

// Sink selects the log output backend.
type Sink int

const (
	SinkStdout Sink = iota
	SinkSyslog
)

const (
	EnvLogLevel     = "DECLD_LOG_LEVEL"
	EnvLogTimestamp = "DECLD_LOG_TIMESTAMP"
	EnvLogNoColor   = "DECLD_LOG_NOCOLOR"
)

// Config describes the full logging setup selected at startup.
type Config struct {
	Sink           Sink
	SyslogFacility string
	SyslogIdent    string
	Level          zerolog.Level
	ChannelLevels  map[Channel]zerolog.Level
	Timestamp      bool
	NoColor        bool
}

// Profile selects defaults for runtime vs test logging.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

func DefaultConfig(profile Profile) Config {
	cfg := Config{
		Sink:           SinkStdout,
		SyslogFacility: "daemon",
		SyslogIdent:    "decld",
		Level:          zerolog.InfoLevel,
		Timestamp:      true,
	}
	if profile == ProfileTest {
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
		cfg.NoColor = true
	}
	return cfg
}

var (
	mu       sync.RWMutex
	channels = defaultChannels()
)

func defaultChannels() map[Channel]zerolog.Logger {
	out := make(map[Channel]zerolog.Logger, len(Channels()))
	w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	for _, ch := range Channels() {
		out[ch] = zerolog.New(w).Level(zerolog.InfoLevel).With().
			Timestamp().Str("channel", string(ch)).Logger()
	}
	return out
}

// Configure builds the sink writer and one sub-logger per channel.
// It replaces any previous configuration.
func Configure(cfg Config) error {
	cfg = withEnvOverrides(cfg)

	var w io.Writer
	switch cfg.Sink {
	case SinkStdout:
		cw := zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
		if cfg.Timestamp {
			cw.TimeFormat = time.RFC3339
		}
		w = cw
	case SinkSyslog:
		sw, err := newSyslogWriter(cfg.SyslogFacility, cfg.SyslogIdent)
		if err != nil {
			return fmt.Errorf("logging: syslog init failed: %w", err)
		}
		w = sw
	default:
		return fmt.Errorf("logging: unknown sink %d", int(cfg.Sink))
	}

	out := make(map[Channel]zerolog.Logger, len(Channels()))
	for _, ch := range Channels() {
		level := cfg.Level
		if override, ok := cfg.ChannelLevels[ch]; ok {
			level = override
		}
		ctx := zerolog.New(w).Level(level).With().Str("channel", string(ch))
		if cfg.Timestamp {
			ctx = ctx.Timestamp()
		}
		out[ch] = ctx.Logger()
	}

	mu.Lock()
	channels = out
	mu.Unlock()
	return nil
}

var testOnce sync.Once

// ConfigureTests sets up deterministic logging for tests (debug level, no
// timestamps, no color), once.
func ConfigureTests() {
	testOnce.Do(func() {
		_ = Configure(DefaultConfig(ProfileTest))
	})
}

// C returns the logger for a channel.
func C(ch Channel) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l, ok := channels[ch]
	if !ok {
		return channels[ChannelDaemon]
	}
	return l
}

func withEnvOverrides(cfg Config) Config {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	return cfg
}

// ParseLevel maps the external level surface (0..5 or a name) onto zerolog
// levels: 0/none disables, 5/debug is the most verbose.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "0", "none":
		return zerolog.Disabled, true
	case "1", "error":
		return zerolog.ErrorLevel, true
	case "2", "warning", "warn":
		return zerolog.WarnLevel, true
	case "3", "notice":
		return zerolog.InfoLevel, true
	case "4", "info":
		return zerolog.DebugLevel, true
	case "5", "debug":
		return zerolog.TraceLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
