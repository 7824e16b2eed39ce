package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quickcodehq/quickcode/internal/api/handlers"
	"github.com/quickcodehq/quickcode/internal/api/middleware"
	"github.com/quickcodehq/quickcode/internal/auth"
	"github.com/quickcodehq/quickcode/internal/config"
	"github.com/quickcodehq/quickcode/internal/infra/sheets"
	"github.com/quickcodehq/quickcode/internal/infra/workbook"
	"github.com/quickcodehq/quickcode/internal/ledger"
	"github.com/quickcodehq/quickcode/internal/logger"
)

func main() {
	// Parse command-line flags
	var (
		configPath = flag.String("config", os.Getenv("QUICKCODE_CONFIG"), "Path to YAML config file (or set QUICKCODE_CONFIG env)")
		port       = flag.String("port", "", "HTTP server port (overrides config)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}

	ctx := context.Background()

	// The ledger lives in a Google spreadsheet; a local workbook file can
	// stand in for offline operation.
	var store ledger.Store
	if cfg.WorkbookFile != "" {
		log.Warn().Str("file", cfg.WorkbookFile).Msg("Using local workbook store - spreadsheet access disabled")
		store, err = workbook.New(cfg.WorkbookFile)
	} else {
		store, err = sheets.New(ctx, cfg.SpreadsheetID, cfg.CredentialsFile)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger store")
	}

	svc := ledger.NewService(store, ledger.Tabs{
		Log:        cfg.Tabs.Log,
		JobMaster:  cfg.Tabs.JobMaster,
		CostCodes:  cfg.Tabs.CostCodes,
		GLAccounts: cfg.Tabs.GLAccounts,
		Users:      cfg.Tabs.Users,
	}, log)

	verifier := auth.NewGoogleVerifier(cfg.Audience, cfg.AllowedDomain)

	// Initialize handlers
	ledgerHandler := handlers.NewLedgerHandler(svc, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/log/split", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ledgerHandler.Split(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/log/submit-batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ledgerHandler.SubmitBatch(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/log/approve-batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ledgerHandler.ApproveBatch(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/log/new", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ledgerHandler.NewTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/approvals/submitted", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ledgerHandler.Approvals(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/lookups", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ledgerHandler.Lookups(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Diagnostics; sample-parents stays outside the auth wall so testers
	// can pick parent IDs without a token.
	mux.HandleFunc("/api/log/sample-parents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ledgerHandler.SampleParents(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/sheets/test", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ledgerHandler.SheetsTest(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(verifier, log, "/api/log/sample-parents")(mux),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("log_tab", cfg.Tabs.Log).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
