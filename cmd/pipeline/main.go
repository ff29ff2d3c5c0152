package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/config"
	"github.com/NFIT95/data-pipeline/internal/pipeline"
	"github.com/NFIT95/data-pipeline/internal/util"
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Batch ETL pipeline from raw JSON entities to an analytics base table",
}

var runFlags struct {
	dataRoot string
	envFile  string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one batch run",
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.dataRoot, "data-root", "", "Override the data root folder")
	runCmd.Flags().StringVar(&runFlags.envFile, "env-file", "", "Load settings from this env file")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if runFlags.envFile != "" {
		if err := godotenv.Load(runFlags.envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg := config.Load()
	if runFlags.dataRoot != "" {
		cfg.Data.Root = runFlags.dataRoot
	}

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting data pipeline")

	tp, err := util.InitTracer(cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	if cfg.Observ.MetricsPort != "" {
		go func() {
			addr := fmt.Sprintf(":%s", cfg.Observ.MetricsPort)
			log.Printf("Serving metrics on %s", addr)
			if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	logger.Info("Pipeline created", zap.String("run_id", p.RunID()))
	if err := p.Run(cmd.Context()); err != nil {
		logger.Error("Pipeline run aborted", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
