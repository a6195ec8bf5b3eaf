package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/SyntropyNet/nethealth/internal/config"
	"github.com/SyntropyNet/nethealth/internal/exporter"
	"github.com/SyntropyNet/nethealth/internal/logger"
	"github.com/SyntropyNet/nethealth/internal/tui"
	"github.com/SyntropyNet/nethealth/pkg/multiping"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// logLevel keeps warnings off the terminal the screen is drawn on.
// Lines below the screen would scroll it.
func logLevel(level int, file string, tty bool) int {
	if file == "" && tty {
		return max(level, logger.ErrorLevel)
	}
	return level
}

func (a *app) logger(cfg *config.Config) *logrus.Logger {
	var w io.Writer = a.errOut
	if cfg.Log.File != "" {
		w = logger.FileWriter(cfg.Log.File, cfg.Log.MaxSize, cfg.Log.MaxBackups)
	}
	level := logLevel(cfg.Log.Level, cfg.Log.File, isTerminal(a.errOut))
	return logger.SetupGlobalLogger(level, cfg.Log.Format, w)
}

func (a *app) run(ctx context.Context, args []string) error {
	cfg, err := config.Load(a.v, args)
	if err != nil {
		return err
	}
	log := a.logger(cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mp := multiping.New(ctx, log)
	mp.Period = cfg.Interval
	mp.Timeout = cfg.Timeout
	mp.RecvTimeout = cfg.RecvTimeout
	mp.Capacity = cfg.Capacity
	mp.PayloadSize = cfg.PayloadSize
	mp.Bind = cfg.Bind
	mp.Listen = a.listen

	var exp *exporter.Exporter
	if cfg.ExporterPort > 0 {
		collector := exporter.NewCollector(mp)
		mp.Client = collector
		if exp, err = exporter.New(cfg.ExporterPort, log, collector); err != nil {
			return err
		}
	}

	if err := mp.Start(cfg.Hosts...); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"version": config.GetVersion(),
		"log":     logger.Level(),
	}).Info("Started")

	screen := tui.NewScreen(a.out, mp.Hosts(), mp.Data(), cfg.Capacity, cfg.Refresh, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return screen.Run(gctx)
	})
	if exp != nil {
		g.Go(func() error {
			return exp.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Terminating")
		return nil
	})

	err = g.Wait()
	mp.Stop()
	log.WithField("counters", mp.Counters().String()).Info("Stopped")
	if log.IsLevelEnabled(logrus.InfoLevel) {
		var buf bytes.Buffer
		mp.Data().Dump(&buf, "Host statistics\n")
		log.Info(strings.TrimSuffix(buf.String(), "\n"))
	}

	summary, serr := tui.Summary(mp.Hosts(), mp.Data())
	if serr != nil {
		log.WithError(serr).Warn("Summary")
	} else {
		fmt.Fprint(a.out, "\n"+summary+"\n")
	}
	return err
}
