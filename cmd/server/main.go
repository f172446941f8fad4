// Package main is the entry point for the faturas API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"faturas/internal/domain/catalogs/party"
	"faturas/internal/domain/catalogs/payment"
	"faturas/internal/domain/catalogs/product"
	"faturas/internal/domain/catalogs/roles"
	"faturas/internal/domain/documents/invoice"
	"faturas/internal/domain/payables"
	v1 "faturas/internal/infrastructure/http/v1"
	"faturas/internal/infrastructure/storage/postgres"
	"faturas/internal/infrastructure/storage/postgres/catalog_repo"
	"faturas/internal/infrastructure/storage/postgres/document_repo"
	"faturas/internal/infrastructure/storage/postgres/payable_repo"
	"faturas/pkg/logger"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting faturas server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit store", "error", err)
	}

	// --- Repositories ---
	partyRepo := catalog_repo.NewPartyRepo(txManager)
	clientRepo := catalog_repo.NewClientRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	carrierRepo := catalog_repo.NewCarrierRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	methodRepo := catalog_repo.NewPaymentMethodRepo(txManager)
	conditionRepo := catalog_repo.NewPaymentConditionRepo(txManager)
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	installmentRepo := payable_repo.NewInstallmentRepo(txManager)

	// --- Services ---
	productService := product.NewService(productRepo, txManager)
	methodService := payment.NewMethodService(methodRepo, txManager)
	conditionService := payment.NewConditionService(conditionRepo, txManager)

	resolver := party.NewResolver(partyRepo)
	rolesService := roles.NewService(roles.ServiceConfig{
		Resolver:   resolver,
		Parties:    partyRepo,
		Conditions: conditionService,
		TxManager:  txManager,
		Clients:    clientRepo,
		Suppliers:  supplierRepo,
		Carriers:   carrierRepo,
	})

	policy, err := payables.ParseDueDatePolicy(getEnv("SCHEDULE_DUE_DATE_POLICY", ""))
	if err != nil {
		log.Fatalw("invalid due date policy", "error", err)
	}
	scheduler := payables.NewScheduler(policy)
	log.Infow("installment scheduler initialized", "due_date_policy", string(policy))

	installmentService := payables.NewService(payables.ServiceConfig{
		Repo:      installmentRepo,
		Methods:   methodService,
		TxManager: txManager,
		Auditor:   auditStore,
	})

	invoiceService := invoice.NewService(invoice.ServiceConfig{
		Repo:           invoiceRepo,
		Counterparties: rolesService,
		Products:       productService,
		Conditions:     conditionService,
		Methods:        methodService,
		Scheduler:      scheduler,
		Installments:   installmentRepo,
		TxManager:      txManager,
		Auditor:        auditStore,
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		Roles:            rolesService,
		Products:         productService,
		PaymentMethods:   methodService,
		PaymentCondition: conditionService,
		Invoices:         invoiceService,
		Installments:     installmentService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
