package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/spanner"
	gohandlers "github.com/gorilla/handlers"
	"github.com/hashicorp/go-hclog"
	"github.com/nicholasjackson/env"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/batch_delete_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/murkotick/catalog-service/internal/media"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
	committer "github.com/murkotick/catalog-service/internal/pkg/committer"
	catalogHTTP "github.com/murkotick/catalog-service/internal/transport/http/catalog"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false, ":9090", "Bind address for the server")
	logLevel    = env.String("LOG_LEVEL", false, "info", "Log output level for the server [trace, debug, info, warn, error]")
	storeDriver = env.String("STORE_DRIVER", false, "spanner", "Catalog store [spanner, memory]")
	spannerDB   = env.String("SPANNER_DATABASE", false,
		"projects/test-project/instances/emulator-instance/databases/test-db", "Spanner database path")
	mediaDir     = env.String("MEDIA_DIR", false, "./media", "Directory holding uploaded assets")
	mediaBaseURL = env.String("MEDIA_BASE_URL", false, "/media", "URL prefix of stored asset locators")
	mediaMax     = env.Int("MEDIA_MAX_BYTES", false, 5<<20, "Maximum size of one uploaded asset")
	adminToken   = env.String("ADMIN_TOKEN", false, "", "Bearer token required for mutations; empty disables the check")
	corsOrigins  = env.String("CORS_ORIGINS", false, "*", "Comma separated allowed CORS origins")
)

func main() {
	if err := env.Parse(); err != nil {
		hclog.Default().Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "catalog",
		Level: hclog.LevelFromString(*logLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.RealClock{}

	store, readModel, closeStore, err := openStore(ctx, clk, logger)
	if err != nil {
		logger.Error("Unable to open catalog store", "driver", *storeDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	mediaStore, err := media.NewLocal(*mediaDir, *mediaBaseURL, *mediaMax, logger.Named("media"))
	if err != nil {
		logger.Error("Unable to open media store", "dir", *mediaDir, "error", err)
		os.Exit(1)
	}

	if *adminToken == "" {
		logger.Warn("ADMIN_TOKEN is empty, mutations are not gated")
	}

	h := catalogHTTP.NewHandler(
		create_product.NewInteractor(store, mediaStore, clk, logger),
		update_product.NewInteractor(store, mediaStore, clk, logger),
		delete_product.NewInteractor(store, mediaStore, clk, logger),
		batch_delete_products.NewInteractor(store, mediaStore, clk, logger),
		readModel,
		logger.Named("http"),
	)
	router := catalogHTTP.NewRouter(h, catalogHTTP.NewMiddleware(logger.Named("http"), *adminToken))

	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})
	handler := gohandlers.RecoveryHandler(
		gohandlers.RecoveryLogger(standardLogger),
		gohandlers.PrintRecoveryStack(true),
	)(router)
	handler = gohandlers.CORS(
		gohandlers.AllowedOrigins(strings.Split(*corsOrigins, ",")),
		gohandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		gohandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
	)(handler)

	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      handler,
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress, "store", *storeDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error starting server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

// openStore builds the configured catalog store and its read model.
func openStore(ctx context.Context, clk clock.Clock, logger hclog.Logger) (contracts.CatalogStore, contracts.ReadModel, func(), error) {
	switch *storeDriver {
	case "memory":
		logger.Warn("Using the in-memory catalog store, data is lost on exit")
		store := repo.NewMemoryStore(clk)
		return store, queries.NewStoreReadModel(store), func() {}, nil
	case "spanner":
		client, err := spanner.NewClient(ctx, *spannerDB)
		if err != nil {
			return nil, nil, nil, err
		}
		store := repo.NewSpannerStore(client, committer.NewAdapter(client), clk)
		return store, queries.NewSpannerReadModel(client), client.Close, nil
	default:
		return nil, nil, nil, errors.New("unknown STORE_DRIVER " + *storeDriver)
	}
}
