package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"papers-backend/cmd"
	"papers-backend/internal/database"
	"papers-backend/internal/ingest"
	"papers-backend/internal/messaging"
	"papers-backend/internal/storage"

	"github.com/caarlos0/env/v11"
)

type WorkerConfig struct {
	DatabaseURL string `env:"DATABASE_URL,notEmpty,required"`
	RabbitMQURL string `env:"RABBITMQ_URL,notEmpty,required"`
	CacheDir    string `env:"DATASET_CACHE_DIR" envDefault:"./dataset-cache"`

	// S3 settings are optional; without them only local and http(s) dataset
	// sources can be resolved.
	S3EndpointURL     string `env:"S3_ENDPOINT_URL" envDefault:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	S3Region          string `env:"AWS_REGION" envDefault:""`

	Reader cmd.ReaderSettings
}

func main() {
	log.Println("Starting Ingest Worker...")

	cmd.LoadEnvFile()

	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var s3Client *storage.S3Client
	if cfg.S3EndpointURL != "" || cfg.S3Region != "" {
		s3Client, err = storage.NewS3Client(&storage.S3Config{
			S3EndpointURL:     cfg.S3EndpointURL,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			S3Region:          cfg.S3Region,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
	}

	reciever, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}

	readerCfg, err := cmd.BuildReaderConfig(cfg.Reader)
	if err != nil {
		log.Fatalf("Failed to build reader config: %v", err)
	}

	processor := ingest.NewProcessor(db, storage.NewFetcher(cfg.CacheDir, s3Client), reciever, readerCfg)

	go processor.Start()

	log.Println("Worker started. Waiting for tasks. Press Ctrl+C to exit.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, stopping processor...")
	processor.Stop()

	log.Println("Worker process stopped.")
}
