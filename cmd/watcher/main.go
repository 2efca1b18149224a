package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/bot"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/config"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/feed"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/fetcher"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/push"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/server"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/storage"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/watcher"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	store, err := storage.NewJSONStore(cfg.DataDir)
	if err != nil {
		log.Error("open state store", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	var source feed.Source
	if cfg.SourceFormat == config.SourceRSS {
		source = feed.NewRSSSource()
	} else {
		source = feed.HTMLSource{}
	}
	extractor := feed.NewExtractor(source, cfg.ChannelURL)
	pageFetcher := fetcher.New(http.DefaultClient)

	var chat watcher.ChatNotifier
	if cfg.TelegramEnabled() {
		b, err := bot.New(cfg.TelegramBotToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Error("create telegram bot", "error", err)
			os.Exit(1)
		}
		chat = b
	}

	var pusher *push.Notifier
	if cfg.PushEnabled() {
		subs, err := storage.NewSQLite(filepath.Join(cfg.DataDir, "subscriptions.db"))
		if err != nil {
			log.Error("open subscription store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = subs.Close() }()
		pusher = push.New(http.DefaultClient, subs, cfg.VapidPublicKey, cfg.VapidPrivateKey, cfg.VapidSubject, log)
	}

	w := watcher.New(cfg.ChannelURL, pageFetcher, extractor, store, chat, pusherOrNil(pusher), cfg.PollInterval, log)
	if err := w.LoadState(); err != nil {
		log.Error("load state", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(w, pageFetcher, serverPusher(pusher), cfg.Production, log)
	if err != nil {
		log.Error("create server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting watcher", "channel", cfg.ChannelURL, "interval", cfg.PollInterval)

	go w.Run(ctx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("server listening", "addr", addr)
	if err := srv.Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}

	log.Info("watcher stopped")
}

// pusherOrNil keeps the watcher's PushSender interface nil when push is
// disabled (a typed nil would defeat the nil check).
func pusherOrNil(p *push.Notifier) watcher.PushSender {
	if p == nil {
		return nil
	}
	return p
}

func serverPusher(p *push.Notifier) server.Pusher {
	if p == nil {
		return nil
	}
	return p
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
