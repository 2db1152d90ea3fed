package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"go-mod.ewintr.nl/stockwatch/internal/bot"
	"go-mod.ewintr.nl/stockwatch/internal/browser"
	"go-mod.ewintr.nl/stockwatch/internal/category"
	"go-mod.ewintr.nl/stockwatch/internal/change"
	"go-mod.ewintr.nl/stockwatch/internal/config"
	"go-mod.ewintr.nl/stockwatch/internal/homeassistant"
	"go-mod.ewintr.nl/stockwatch/internal/notify"
	"go-mod.ewintr.nl/stockwatch/internal/scan"
	"go-mod.ewintr.nl/stockwatch/internal/stock"
)

const (
	notifyAttempts = 3
	notifyPause    = 5 * time.Second
)

var envFile = flag.String("env", ".env", "optional env file")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		slog.Error("stockwatch stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: conf.LogLevel}))
	logger.Info("stock watcher started")
	if err := tgbotapi.SetLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn)); err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(conf.BotToken)
	if err != nil {
		return err
	}
	logger.Info("connected to telegram", "bot", api.Self.UserName)

	parser, err := stock.NewParser(conf.Selectors)
	if err != nil {
		return err
	}

	registry := category.NewRegistry(conf.Categories...)
	logger.Info("loaded categories", "count", registry.Len())
	detector := change.NewDetector()
	tg := bot.New(api, bot.NewHandler(conf.AdminID, registry, detector), conf.AdminID, logger)

	var mirrors []notify.Notifier
	if conf.Mail.Enabled() {
		mirrors = append(mirrors, notify.WithRetry(notify.NewMail(conf.Mail), notifyAttempts, notifyPause))
		logger.Info("mailing reports", "to", conf.Mail.To, "cc", conf.Mail.CC)
	}
	notifier := notify.NewMirror(notify.WithRetry(tg, notifyAttempts, notifyPause), logger, mirrors...)
	opts := []scan.Option{
		scan.WithBuckets(conf.Buckets),
		scan.WithLocation(conf.Location),
	}
	if conf.HomeAssistant.Enabled() {
		opts = append(opts, scan.WithStatus(homeassistant.New(conf.HomeAssistant)))
	}

	cycle := scan.NewCycle(
		registry,
		detector,
		browser.New(conf.Browser, logger),
		parser,
		notifier,
		logger,
		opts...,
	)
	scheduler := scan.NewScheduler(cycle, conf.InitialDelay, conf.Interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tg.Run(ctx) })
	g.Go(func() error { return scheduler.Run(ctx) })
	err = g.Wait()
	logger.Info("done")

	return err
}
