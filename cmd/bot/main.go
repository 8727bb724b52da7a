package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"

	"remindbot/internal/config"
	"remindbot/internal/delivery"
	"remindbot/internal/engine"
	"remindbot/internal/groups"
	"remindbot/internal/observability/pprof"
	"remindbot/internal/remind"
	"remindbot/internal/scheduler"
	"remindbot/internal/server"
	"remindbot/internal/storage"
	"remindbot/internal/transport"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config yaml")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath); err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	boot := newLogger("info", true)

	mgr := config.NewManager(cfgPath, boot)
	cfg, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.Logging.Level, cfg.Logging.Console)

	st, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: cfg.Storage.BusyTimeout.Std(),
	}, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	poster := transport.NewHTTPPoster(cfg.Reply.SinkURL, cfg.Reply.RatePerSec, log)
	resolver := groups.New(st, log)
	dispatcher := delivery.New(st, resolver, poster, log)

	sched := scheduler.New(scheduler.Config{
		ResyncEvery: cfg.Scheduler.ResyncEvery.Std(),
		FireTimeout: cfg.Scheduler.FireTimeout.Std(),
	}, st, dispatcher, clock.New(), log)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	eng := engine.New(engine.Config{CommandWord: cfg.Bot.CommandWord},
		st, sched, resolver, remind.NewWhenParser(), log)
	srv := server.New(server.Config{Listen: cfg.Server.Listen, BotName: cfg.Bot.Name},
		eng, poster, log)

	// Hot reload: only the log level is applied live; everything else
	// takes effect on restart.
	go func() {
		if err := mgr.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("config watcher stopped")
		}
	}()
	go func() {
		for next := range mgr.Subscribe(1) {
			zerolog.SetGlobalLevel(parseLevel(next.Logging.Level))
			log.Info().Str("level", next.Logging.Level).Msg("log level applied")
		}
	}()

	go func() {
		prof := pprof.New(pprof.Config{
			Enabled: cfg.Pprof.Enabled,
			Addr:    cfg.Pprof.Addr,
			Token:   cfg.Pprof.Token,
		}, log)
		if err := prof.Run(ctx); err != nil {
			log.Warn().Err(err).Msg("pprof server stopped")
		}
	}()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()

	return srv.Run(ctx)
}

// newLogger builds the root logger. Instances are created wide open and the
// effective level is controlled globally so reloads apply everywhere.
func newLogger(level string, console bool) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))
	var out io.Writer = os.Stdout
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat}
	}
	return zerolog.New(out).Level(zerolog.TraceLevel).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
