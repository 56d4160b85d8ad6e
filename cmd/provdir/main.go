package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/provdir/internal/api"
	"github.com/dgallion1/provdir/internal/cleaner"
	"github.com/dgallion1/provdir/internal/config"
	"github.com/dgallion1/provdir/internal/export"
	"github.com/dgallion1/provdir/internal/extract"
	"github.com/dgallion1/provdir/internal/pipeline"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "provdir",
		Short: "Medicare provider directory extraction",
		Long: `Provdir converts provider-directory documents (PDF, DOCX, HTML,
markdown) into structured provider records.

It cleans the converted text with layout-aware rules, chunks it along
record boundaries, extracts records through an OpenRouter-hosted LLM,
and exports them as CSV, JSON, or XLSX.`,
		Version: version,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(formatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		formatFlag       string
		outputFlag       string
		budgetFlag       int
		keepIntermediate bool
	)

	cmd := &cobra.Command{
		Use:   "run <document>",
		Short: "Extract provider records from one document",
		Long: `Run the full pipeline on a single document and write the records
to the output directory.

The directory layout is detected from the filename (e.g.
"medicare_ca_la_2024.pdf") unless --format is given. The --output flag
picks the export encoding from its extension (.csv, .json, .xlsx).

Example:
  provdir run medicare_il_cook.pdf
  provdir run roster.pdf --format ca_la --output providers.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.KeepIntermediate = cfg.KeepIntermediate || keepIntermediate
			if budgetFlag > 0 {
				cfg.ChunkBudget = budgetFlag
			}

			format := cleaner.Format(formatFlag)
			if formatFlag != "" {
				if _, err := cleaner.ConfigFor(format); err != nil {
					return err
				}
			} else {
				var err error
				format, err = cleaner.DetectFormat(path)
				if err != nil {
					return fmt.Errorf("%w (use --format)", err)
				}
			}

			if outputFlag != "" {
				if _, err := export.FormatForFile(outputFlag); err != nil {
					return err
				}
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			llm := extract.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)
			defer llm.Close()

			store := pipeline.NewJobStore(cfg.JobTTL)
			worker := pipeline.NewWorker(llm, extract.NewLLMStats(time.Hour), store, log, cfg)

			now := time.Now()
			job := &pipeline.Job{
				ID:         "cli",
				DocID:      pipeline.ContentHashHex(data)[:16],
				Status:     pipeline.StatusQueued,
				Phase:      "queued",
				Filename:   filepath.Base(path),
				Format:     format,
				ExportPath: outputFlag,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			job.SetFileData(data)
			store.Put(job)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			worker.Process(ctx, job)

			snap := job.Snapshot()
			switch snap.Status {
			case pipeline.StatusCompleted, pipeline.StatusPartial:
			default:
				return fmt.Errorf("extraction %s: %v", snap.Status, snap.Progress.Errors)
			}

			records := job.Records()
			fmt.Printf("Extracted %d provider records from %d chunks\n", len(records), snap.Progress.TotalChunks)
			fmt.Printf("Output: %s\n", snap.OutputPath)
			if snap.Status == pipeline.StatusPartial {
				fmt.Printf("Completed with %d errors\n", len(snap.Progress.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "directory layout (ca_la, il_cook); detected from filename when empty")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file; extension picks csv, json or xlsx")
	cmd.Flags().IntVar(&budgetFlag, "budget", 0, "chunk budget override (tokens or characters, per layout)")
	cmd.Flags().BoolVar(&keepIntermediate, "keep-intermediate", false, "save converted and cleaned markdown next to the export")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			cfg := config.Load()
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			llm := extract.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)

			orch := pipeline.NewOrchestrator(cfg, llm, log)
			orch.Start(ctx)

			srv := api.NewServer(orch, llm, log, cfg)

			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				// Stop accepting requests before the job queue closes,
				// so no upload races the shutdown.
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)

				orch.Stop()
				llm.Close()
			}()

			log.Info("starting provdir", "port", cfg.Port, "model", cfg.OpenRouterModel)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported directory layouts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%-10s one block per practitioner, bolded \"Last, First MD\" headers\n", cleaner.FormatCALA)
			fmt.Printf("%-10s practitioners grouped under bolded organization headers\n", cleaner.FormatILCook)
		},
	}
}
