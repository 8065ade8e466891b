package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/slbug/nbrb-currency/internal/application/service"
	"github.com/slbug/nbrb-currency/internal/infrastructure/api"
	"github.com/slbug/nbrb-currency/internal/infrastructure/db"
	"github.com/slbug/nbrb-currency/internal/infrastructure/handler"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
	"github.com/slbug/nbrb-currency/internal/infrastructure/middleware"
	"github.com/slbug/nbrb-currency/internal/infrastructure/store"
)

func main() {
	log.Println("Starting NBRB currency rate service")

	appLogger := logger.NewJSONLogger(os.Stdout, logLevel())

	// Setup BadgerDB for the raw-document cache
	dbPath := os.Getenv("NBRB_CACHE_DIR")
	if dbPath == "" {
		dbPath = filepath.Join(".", "data")
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		log.Fatalf("Failed to create cache directory: %v", err)
	}

	badgerOpts := badger.DefaultOptions(dbPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatalf("Failed to open cache database: %v", err)
	}

	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Printf("Error closing BadgerDB: %v", err)
		}
	}()

	// Initialize infrastructure
	rateStore := store.NewMemoryRateStore()
	documentCache := db.NewBadgerDocumentCache(badgerDB)
	nbrbAPI := api.NewNBRBAPIClient(nil, appLogger)

	// Initialize services
	rateService := service.NewRateService(rateStore, nbrbAPI, documentCache, appLogger)
	exchangeService := service.NewExchangeService(rateService, appLogger)

	// Initialize handlers
	rateHandler := handler.NewRateHandler(rateService, appLogger)
	exchangeHandler := handler.NewExchangeHandler(exchangeService, appLogger)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(appLogger))
	rateHandler.RegisterRoutes(router)
	exchangeHandler.RegisterRoutes(router)

	addr := os.Getenv("NBRB_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Printf("Server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

func logLevel() logger.Level {
	if lvl := os.Getenv("NBRB_LOG_LEVEL"); lvl != "" {
		return logger.Level(lvl)
	}
	return logger.InfoLevel
}
