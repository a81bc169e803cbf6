package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/NANDHINI7390/signify-invoice/internal/access"
	"github.com/NANDHINI7390/signify-invoice/internal/config"
	"github.com/NANDHINI7390/signify-invoice/internal/database"
	signifyHttp "github.com/NANDHINI7390/signify-invoice/internal/http"
	importHandler "github.com/NANDHINI7390/signify-invoice/internal/http/importcsv"
	invoiceHandler "github.com/NANDHINI7390/signify-invoice/internal/http/invoice"
	signHandler "github.com/NANDHINI7390/signify-invoice/internal/http/sign"
	"github.com/NANDHINI7390/signify-invoice/internal/importer"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	invoiceStore "github.com/NANDHINI7390/signify-invoice/internal/invoice/store"
	"github.com/NANDHINI7390/signify-invoice/internal/notify"
	"github.com/NANDHINI7390/signify-invoice/internal/sharelink"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	links := sharelink.NewBuilder(cfg.Auth.Secret, cfg.App.BaseURL, cfg.Auth.LinkTTL)

	var notifier invoice.Notifier = notify.LogSender{}
	if cfg.Notify.Endpoint != "" {
		notifier = notify.NewRelay(cfg.Notify.Endpoint, cfg.Notify.Token)
	}

	var (
		invoiceService = invoice.NewService(invoiceStore.New(db), access.NewGuard(), notifier, links)
		importService  = importer.NewService()
	)

	var (
		invoicesH = invoiceHandler.NewHandler(invoiceService)
		importH   = importHandler.NewHandler(importService, invoiceService)
		signH     = signHandler.NewHandler(invoiceService, links)
	)

	router := signifyHttp.New(cfg.Auth.Secret, invoicesH, importH, signH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
