package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdantbooks/receiptor/internal/api"
	"github.com/verdantbooks/receiptor/internal/config"
	"github.com/verdantbooks/receiptor/internal/normalize"
	"github.com/verdantbooks/receiptor/internal/ocr"
	"github.com/verdantbooks/receiptor/internal/pipeline"
	"github.com/verdantbooks/receiptor/internal/providers"
)

var processOCRDisabled bool

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Extract a receipt locally without a running server",
	Long: `Process runs the extraction pipeline in-process: normalize the
image, OCR it, call the configured structuring model, and print the
validated record.

Examples:
  receiptor process ./receipt.jpg
  receiptor process --no-ocr ./receipt.heic`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read receipt: %w", err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cmd.Context(), cfg.ToRegistryConfig())

		var engine ocr.Engine = ocr.Disabled{}
		if cfg.OCR.Enabled && !processOCRDisabled {
			engine = ocr.NewTesseract(ocr.TesseractConfig{
				Languages:      cfg.OCR.Languages,
				TessdataPrefix: cfg.OCR.TessdataPrefix,
				AssetURL:       cfg.OCR.AssetURL,
				CacheDir:       cfg.OCR.CacheDir,
			})
		}

		p := pipeline.New(pipeline.Config{
			Normalizer: normalize.New(cfg.WidthCeiling()),
			Engine:     engine,
			Registry:   registry,
			Timeout:    cfg.RequestTimeout(),
			Logger:     logger,
		})

		rec, err := p.Process(cmd.Context(), pipeline.Input{Image: data})
		if err != nil {
			return err
		}
		return api.Output(rec)
	},
}

func init() {
	processCmd.Flags().BoolVar(&processOCRDisabled, "no-ocr", false, "Skip OCR and rely on the image alone")
	rootCmd.AddCommand(processCmd)
}
