package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"papers-backend/cmd"
	"papers-backend/internal/api"
	"papers-backend/internal/database"
	"papers-backend/internal/ingest"
	"papers-backend/internal/messaging"
	"papers-backend/internal/predictor"
	"papers-backend/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	ort "github.com/yalue/onnxruntime_go"
	"gorm.io/gorm"
)

// The local binary runs the API server and the ingest worker in one process
// with a sqlite catalog and an in-memory queue.
type Config struct {
	Root             string `env:"ROOT" envDefault:"./paper-classifier"`
	Port             int    `env:"PORT" envDefault:"3001"`
	ModelDir         string `env:"MODEL_DIR" envDefault:""`
	OnnxRuntimeDylib string `env:"ONNX_RUNTIME_DYLIB" envDefault:""`

	Reader cmd.ReaderSettings
}

func createServer(db *gorm.DB, queue messaging.Publisher, classifier predictor.Classifier, port int) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	apiHandler := api.NewBackendService(db, queue, predictor.New(nil, ""), classifier)

	r.Route("/api/v1", func(r chi.Router) {
		apiHandler.AddRoutes(r)
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := os.MkdirAll(cfg.Root, os.ModePerm); err != nil {
		log.Fatalf("error creating root directory: %v", err)
	}

	f, err := os.OpenFile(filepath.Join(cfg.Root, "backend.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	log.SetOutput(io.MultiWriter(f, os.Stderr))

	slog.Info("starting backend", "root", cfg.Root, "port", cfg.Port, "model_dir", cfg.ModelDir)

	var classifier predictor.Classifier
	if cfg.ModelDir != "" {
		if cfg.OnnxRuntimeDylib == "" {
			log.Fatalf("ONNX_RUNTIME_DYLIB must be set when MODEL_DIR is provided")
		}
		ort.SetSharedLibraryPath(cfg.OnnxRuntimeDylib)
		if err := ort.InitializeEnvironment(); err != nil {
			log.Fatalf("could not init ONNX Runtime: %v", err)
		}
		defer func() {
			if err := ort.DestroyEnvironment(); err != nil {
				log.Fatalf("error destroying onnx env: %v", err)
			}
		}()

		classifier, err = predictor.LoadOnnxClassifier(cfg.ModelDir)
		if err != nil {
			log.Fatalf("could not load classifier model: %v", err)
		}
		defer classifier.Release()
	}

	db, err := database.NewDatabase(filepath.Join(cfg.Root, "db", "catalog.db"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	queue := messaging.NewInMemoryQueue()

	readerCfg, err := cmd.BuildReaderConfig(cfg.Reader)
	if err != nil {
		log.Fatalf("Failed to build reader config: %v", err)
	}

	fetcher := storage.NewFetcher(filepath.Join(cfg.Root, "dataset-cache"), nil)
	worker := ingest.NewProcessor(db, fetcher, queue, readerCfg)

	server := createServer(db, queue, classifier, cfg.Port)

	slog.Info("starting worker")
	go worker.Start()

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		slog.Info("shutting down worker")
		worker.Stop()
	}()

	slog.Info("server started", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
