package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arizonacpm/parkshop/pkg/auth"
	"github.com/arizonacpm/parkshop/pkg/catalog"
	"github.com/arizonacpm/parkshop/pkg/channels"
	"github.com/arizonacpm/parkshop/pkg/config"
	"github.com/arizonacpm/parkshop/pkg/dialog"
	"github.com/arizonacpm/parkshop/pkg/dispatch"
	"github.com/arizonacpm/parkshop/pkg/logger"
	"github.com/arizonacpm/parkshop/pkg/notify"
	"github.com/arizonacpm/parkshop/pkg/session"
	"github.com/arizonacpm/parkshop/pkg/shop"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.ErrorCF("main", "Failed to load configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	logger.SetDebug(cfg.Debug)

	channel, err := channels.NewTelegramChannel(cfg)
	if err != nil {
		logger.ErrorCF("main", "Failed to create telegram channel", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	store := catalog.Open(cfg.ProductsFile)
	sessions := session.NewStore()
	guard := auth.NewGuard(cfg.AdminID, cfg.AllowedAdmins)
	notifier := notify.New(channel, cfg.AdminGroupID)
	engine := dialog.NewEngine(sessions, store, channel, notifier)
	handlers := shop.NewHandlers(store, guard, channel, notifier)
	router := dispatch.NewRouter(guard, sessions, engine, handlers, channel)
	channel.SetDispatcher(router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoCF("main", "Starting parkshop bot", map[string]any{
		"products_file":  cfg.ProductsFile,
		"admin_group_id": cfg.AdminGroupID,
	})
	if err := channel.Start(ctx); err != nil {
		logger.ErrorCF("main", "Bot stopped with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	logger.InfoC("main", "Shutdown complete")
}
