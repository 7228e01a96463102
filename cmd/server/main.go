package main

import (
	"fmt"
	"log"

	"credintel/internal/config"
	"credintel/internal/handler"
	"credintel/internal/inference"
	anthropicinf "credintel/internal/inference/anthropic"
	openaiinf "credintel/internal/inference/openai"
	"credintel/internal/loader"
	"credintel/internal/pdftext"
	"credintel/internal/port"
	"credintel/internal/repository/postgres"
	"credintel/internal/router"
	"credintel/internal/service"
	s3storage "credintel/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	inference.RegisterProvider("openai", func(cfg *config.InferenceConfig) (port.InferenceClient, error) {
		return openaiinf.NewClient(cfg), nil
	})
	inference.RegisterProvider("anthropic", func(cfg *config.InferenceConfig) (port.InferenceClient, error) {
		return anthropicinf.NewClient(cfg), nil
	})
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	reportRepo := postgres.NewReportRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	registerProviders()
	inferenceClient, err := inference.NewClient(&cfg.Inference)
	if err != nil {
		return fmt.Errorf("failed to initialize inference client: %w", err)
	}

	docLoader := loader.New(s3Client, pdftext.NewExtractor())
	reportSvc := service.NewReportService(docLoader, reportRepo, s3Client, inferenceClient, &cfg.Inference, &cfg.S3)

	reportH := handler.NewReportHandler(reportSvc, cfg.Report.RequestTimeout)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, reportH, healthH)

	log.Printf("Server starting on %s (inference provider: %s)", cfg.Server.Port, inferenceClient.ProviderName())
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
