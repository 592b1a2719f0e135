// Package main is the entry point for the gradecast server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/randytsao24/gradecast/internal/api"
	"github.com/randytsao24/gradecast/internal/cache"
	"github.com/randytsao24/gradecast/internal/classifier"
	"github.com/randytsao24/gradecast/internal/config"
	"github.com/randytsao24/gradecast/internal/dataset"
	"github.com/randytsao24/gradecast/internal/features"
	"github.com/randytsao24/gradecast/internal/mapview"
	"github.com/randytsao24/gradecast/internal/predict"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	slog.SetDefault(newLogger(cfg))

	pipeline, model, err := loadPipeline(cfg)
	if err != nil {
		return err
	}
	defer model.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := dataset.Load(ctx, cfg.DataPath)
	if err != nil {
		return err
	}
	slog.Info("dataset loaded",
		"path", cfg.DataPath,
		"restaurants", data.Count(),
		"boroughs", len(data.Boroughs()),
	)

	mapCache := cache.New[[]mapview.Row](cfg.CacheTTL)
	defer mapCache.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(cfg, data, pipeline, mapCache),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gradecast server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"url", "http://localhost:"+cfg.Port,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("map cache", "stats", mapCache.Stats())
	return nil
}

// loadPipeline loads the metadata and model artifacts. Either failing is fatal.
func loadPipeline(cfg *config.Config) (*predict.Pipeline, classifier.Model, error) {
	meta, err := features.LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading metadata: %w", err)
	}

	enc, err := features.NewEncoder(meta)
	if err != nil {
		return nil, nil, err
	}

	model, err := classifier.Load(classifier.ONNXConfig{
		ModelPath:   cfg.ModelPath,
		LibraryPath: cfg.ORTLibraryPath,
		InputName:   cfg.ONNXInputName,
		OutputName:  cfg.ONNXProbaOutput,
		Classes:     meta.Classes,
		NFeatures:   features.Width,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading model: %w", err)
	}

	if len(meta.Classes) > 0 && !slices.Equal(meta.Classes, model.Classes()) {
		slog.Warn("metadata classes differ from model classes",
			"metadata_classes", meta.Classes,
			"model_classes", model.Classes(),
		)
	}

	predictor, err := predict.NewPredictor(model)
	if err != nil {
		model.Close()
		return nil, nil, err
	}

	pipeline, err := predict.NewPipeline(enc, predictor)
	if err != nil {
		model.Close()
		return nil, nil, err
	}

	slog.Info("model loaded",
		"model", cfg.ModelPath,
		"metadata", cfg.MetadataPath,
		"classes", model.Classes(),
		"feature_columns", meta.FeatureColumns,
	)
	return pipeline, model, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
