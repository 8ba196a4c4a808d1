package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quangtb/nextimg/internal/batch"
	"github.com/quangtb/nextimg/internal/codec"
	"github.com/quangtb/nextimg/internal/config"
	"github.com/quangtb/nextimg/internal/discovery"
	"github.com/quangtb/nextimg/internal/history"
	"github.com/quangtb/nextimg/shared/logger"
)

type convertOptions struct {
	format    string
	quality   int
	outputDir string
	recursive bool
	overwrite bool
	workers   int
	avifSpeed int
	noHistory bool
}

func newConvertCommand() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <inputs...>",
		Short: "Convert JPEG files to WebP and/or AVIF",
		Long: `Convert one or more JPG/JPEG files or directories to WebP and/or AVIF.
Converted files keep their basename with the extension replaced; without
--output-dir they are written next to the source files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args)
		},
	}

	defaultWorkers := runtime.NumCPU()
	if defaultWorkers > batch.MaxWorkers {
		defaultWorkers = batch.MaxWorkers
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "both", "Output format: webp, avif or both")
	cmd.Flags().IntVarP(&opts.quality, "quality", "q", 80, "Quality for output files, 1-100")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Optional output directory")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Scan directories recursively")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Overwrite existing output files")
	cmd.Flags().IntVar(&opts.workers, "workers", defaultWorkers, "Number of concurrent workers")
	cmd.Flags().IntVar(&opts.avifSpeed, "avif-speed", 6, "AVIF encoding speed, 0-10 (lower is slower but better)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this batch in the history database")

	return cmd
}

func parseFormats(value string) ([]codec.Format, error) {
	if value == "both" {
		return []codec.Format{codec.FormatWebP, codec.FormatAVIF}, nil
	}
	format, err := codec.ParseFormat(value)
	if err != nil {
		return nil, err
	}
	return []codec.Format{format}, nil
}

func runConvert(cmd *cobra.Command, opts *convertOptions, inputs []string) error {
	if opts.quality < 1 || opts.quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", opts.quality)
	}
	if opts.avifSpeed < 0 || opts.avifSpeed > 10 {
		return fmt.Errorf("avif-speed must be between 0 and 10, got %d", opts.avifSpeed)
	}

	formats, err := parseFormats(opts.format)
	if err != nil {
		return err
	}

	log := logger.NewDefault()
	conv := codec.New()

	wantAVIF := false
	for _, format := range formats {
		if format == codec.FormatAVIF {
			wantAVIF = true
		}
	}
	if wantAVIF && !conv.Supports(codec.FormatAVIF) {
		if len(formats) == 1 {
			return fmt.Errorf("%w: avif", codec.ErrUnsupportedFormat)
		}
		// Requested "both": keep the AVIF jobs so each reports its own
		// unsupported-format failure, but say it once up front.
		log.Warn("AVIF encoder not available, AVIF outputs will fail")
	}

	files := discovery.Discover(inputs, opts.recursive, log.Logger)
	if len(files) == 0 {
		return fmt.Errorf("no JPG/JPEG files found")
	}

	jobs := batch.BuildJobs(files, formats, opts.quality, opts.avifSpeed, opts.outputDir, opts.overwrite)

	log.Info("Starting batch",
		slog.Int("files", len(files)),
		slog.Int("jobs", len(jobs)),
		slog.Int("workers", opts.workers),
		slog.String("format", opts.format),
		slog.Int("quality", opts.quality),
	)

	runner := &batch.Runner{
		Workers: opts.workers,
		Convert: conv.Convert,
		Logger:  log.Logger,
	}

	started := time.Now()
	results := runner.Run(cmd.Context(), jobs, batch.DirSink{})
	summary := batch.Summarize(results)
	elapsed := time.Since(started)

	fmt.Fprintln(cmd.OutOrStdout(), renderSummaryTable(summary, elapsed))

	if !opts.noHistory {
		recordCLIHistory(log, opts, summary, started)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d conversion(s) failed", summary.Failed, summary.Total)
	}
	return nil
}

// recordCLIHistory best-effort appends the batch to the local history
// database; a broken history store never fails a conversion run.
func recordCLIHistory(log *logger.Logger, opts *convertOptions, summary batch.Summary, started time.Time) {
	store, err := history.Open(config.DefaultHistoryPath())
	if err != nil {
		log.Warn("History store unavailable", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = store.Close() }()

	entry := history.Entry{
		ID:         uuid.New().String(),
		Origin:     "cli",
		Format:     opts.format,
		Quality:    opts.quality,
		Workers:    opts.workers,
		Total:      summary.Total,
		Converted:  summary.Converted,
		Skipped:    summary.Skipped,
		Failed:     summary.Failed,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Record(ctx, entry); err != nil {
		log.Warn("Failed to record batch history", slog.String("error", err.Error()))
	}
}
