package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli"
	"github.com/vnykmshr/countdown/pkg/countdown"
	"github.com/vnykmshr/countdown/pkg/metrics"
	"github.com/vnykmshr/countdown/pkg/notify"
	"github.com/vnykmshr/countdown/pkg/scheduling/trigger"
)

const shutdownTimeout = 5 * time.Second

func optionsFromContext(c *cli.Context) (options, error) {
	var file fileConfig
	if path := c.String("config"); path != "" {
		var err error
		if file, err = loadConfigFile(path); err != nil {
			return options{}, err
		}
	}
	return resolveOptions(file, c)
}

func validateAction(c *cli.Context) error {
	opts, err := optionsFromContext(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "ok: %d seconds, name %q\n", opts.Seconds, opts.Name)
	return nil
}

func runAction(c *cli.Context) error {
	opts, err := optionsFromContext(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, opts, c.App.Writer, c.App.ErrWriter)
}

// run executes one countdown, or a cron-restarted series of them, until it
// finishes or ctx is canceled.
func run(ctx context.Context, opts options, out, errOut io.Writer) error {
	if errOut == nil {
		errOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: opts.logLevel()}))

	var reg *metrics.Registry
	if opts.MetricsAddr != "" {
		promReg := prometheus.NewRegistry()
		reg = metrics.NewRegistry(promReg)
		shutdown, err := serveMetrics(opts.MetricsAddr, promReg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	var handlers []countdown.Handler

	var bar *progressBar
	if opts.Progress && opts.Cron == "" && opts.Seconds > 0 {
		bar = newProgressBar(out, opts.Name, opts.Seconds)
		handlers = append(handlers, bar.Handle)
	}

	if opts.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		defer func() { _ = rdb.Close() }()

		pub, err := notify.NewPublisher(notify.Config{
			Client:   rdb,
			Channel:  opts.RedisChannel,
			Encoding: opts.Encoding,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		handlers = append(handlers, pub.Handle)
	}

	// finished is closed once the finish event has reached every other
	// handler, so the bar has rendered its final state.
	finished := make(chan struct{})
	var once sync.Once
	handlers = append(handlers, logEvents(logger), func(e countdown.Event) error {
		if e.Kind == countdown.EventFinish {
			once.Do(func() { close(finished) })
		}
		return nil
	})
	h := countdown.Chain(handlers...)

	t, err := countdown.New(countdown.Config{
		StartTime:                          opts.Seconds,
		DisableInvalidStateTransitionError: opts.Lenient,
		OnStart:                            h,
		OnPause:                            h,
		OnTick:                             h,
		OnFinish:                           h,
		OnReset:                            h,
		Name:                               opts.Name,
		Logger:                             logger,
		Metrics:                            reg,
	})
	if err != nil {
		return err
	}

	if opts.Cron != "" {
		return runCron(ctx, t, opts, logger)
	}

	if err := t.Start(); err != nil {
		// Handler failures are reported but do not stop the countdown.
		logger.Warn("start", "error", err)
	}

	waitErr := t.WaitFinished(ctx)
	if waitErr == nil {
		select {
		case <-finished:
		case <-ctx.Done():
			waitErr = ctx.Err()
		}
	}
	if bar != nil {
		bar.Close()
	}
	if waitErr != nil {
		_ = t.Reset()
		if errors.Is(waitErr, context.Canceled) {
			fmt.Fprintln(out, "countdown interrupted")
			return nil
		}
		return waitErr
	}

	fmt.Fprintf(out, "countdown %q finished after %d seconds\n", opts.Name, opts.Seconds)
	return nil
}

func runCron(ctx context.Context, t countdown.Timer, opts options, logger *slog.Logger) error {
	tr, err := trigger.NewCron(opts.Cron, t, trigger.Config{Logger: logger, Name: opts.Name})
	if err != nil {
		return err
	}
	if err := tr.Start(); err != nil {
		return err
	}
	logger.Info("waiting for schedule", "cron", opts.Cron, "next", tr.Next())

	<-ctx.Done()
	<-tr.Stop()
	return t.Reset()
}

func logEvents(logger *slog.Logger) countdown.Handler {
	return func(e countdown.Event) error {
		switch e.Kind {
		case countdown.EventStart, countdown.EventFinish, countdown.EventPause, countdown.EventReset:
			logger.Info(string(e.Kind), "timer_id", e.Info.ID, "remaining", e.Info.Remaining)
		default:
			logger.Debug(string(e.Kind), "timer_id", e.Info.ID, "remaining", e.Info.Remaining)
		}
		return nil
	}
}

// serveMetrics exposes reg on addr/metrics and returns a shutdown func.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", "error", err)
		}
		<-done
	}, nil
}
