package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/decld/internal/config"
	"github.com/danmuck/decld/internal/engine"
	"github.com/danmuck/decld/internal/logging"
	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/modules"
	"github.com/danmuck/decld/internal/observability"
	"github.com/danmuck/decld/internal/reactor"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	opts, err := parseArguments(argv[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "decld: %v\n", err)
		printHelp(os.Stderr, argv[0])
		return 1
	}

	if opts.help {
		printVersion(os.Stdout)
		printHelp(os.Stdout, argv[0])
		return 0
	}
	if opts.version {
		printVersion(os.Stdout)
		return 0
	}

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	if opts.logger == "syslog" {
		logCfg.Sink = logging.SinkSyslog
	}
	logCfg.SyslogFacility = opts.syslogFacility
	logCfg.SyslogIdent = opts.syslogIdent
	if opts.loglevelSet {
		logCfg.Level = opts.loglevel
	}
	logCfg.ChannelLevels = opts.channelLevels
	if err := logging.Configure(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "decld: %v\n", err)
		return 1
	}
	log := logging.C(logging.ChannelDaemon)
	log.Info().Str("version", version).Msg("initializing decld")

	doc, err := config.LoadDocument(opts.configFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load program document")
		return 1
	}

	reg := module.NewRegistry()
	if err := modules.RegisterBuiltins(reg); err != nil {
		log.Error().Err(err).Msg("failed to register builtin modules")
		return 1
	}
	if err := reg.GlobalInitAll(); err != nil {
		log.Error().Err(err).Msg("module global init failed")
		return 1
	}

	r := reactor.New()
	ctl := engine.NewController(r, reg, engine.RetryConfig{
		Interval: doc.Daemon.RetryIntervalDuration(),
		Jitter:   doc.Daemon.RetryJitter,
	})

	for _, pc := range doc.Processes {
		if err := ctl.AddProcess(pc); err != nil {
			log.Error().Err(err).Str("process", pc.Name).Msg("failed to load process")
		}
	}
	if ctl.Len() == 0 {
		log.Error().Msg("no processes loaded")
		return 1
	}

	var admin *observability.AdminServer
	if doc.Daemon.AdminAddr != "" {
		admin, err = observability.NewAdminServer(observability.AdminConfig{
			Addr:        doc.Daemon.AdminAddr,
			CorsOrigins: doc.Daemon.CorsOrigins,
			Reactor:     r,
			Processes:   func() any { return ctl.Snapshot() },
			Modules:     func() any { return reg.ListInfo() },
			Version:     version,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to start admin server")
			return 1
		}
		admin.Start()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigCh {
			r.Post(func() {
				log.Info().Msg("termination requested")
				ctl.Terminate()
			})
		}
	}()

	log.Info().Msg("entering event loop")
	code := r.Run()

	signal.Stop(sigCh)
	if admin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = admin.Shutdown(ctx)
		cancel()
	}

	log.Info().Msg("exiting")
	return code
}
