package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/insightdelivered/statement-table-extractor/internal/api"
	"github.com/insightdelivered/statement-table-extractor/internal/config"
	"github.com/insightdelivered/statement-table-extractor/internal/extractor"
	"github.com/insightdelivered/statement-table-extractor/internal/metrics"
	"github.com/insightdelivered/statement-table-extractor/internal/models"
	"github.com/insightdelivered/statement-table-extractor/internal/parser"
	"github.com/insightdelivered/statement-table-extractor/internal/writer"
)

// options are the per-file conversion settings gathered from flags and env.
type options struct {
	family        models.Family
	calibration   string
	output        string
	format        string
	includeHeader bool
	debug         bool
	extract       extractor.Options
}

func main() {
	familyFlag := flag.String("family", "", "Document family: dbs, posb (auto-detected if omitted)")
	configFlag := flag.String("config", "", "YAML calibration file layered over the family defaults")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the format's extension)")
	formatFlag := flag.String("format", "csv", "Output format: csv, json, xlsx")
	headerFlag := flag.Bool("header", true, "Include metadata header rows in CSV")
	debugFlag := flag.Bool("debug", false, "Print the per-line parse trace")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	envFlag := flag.String("env", "", "Load environment from this .env file (default ./.env)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Table Extractor
by Insight Delivered (QEA AutoLens)

Reconstructs the transaction table of DBS/POSB consolidated statement PDFs
from word coordinates and writes it as CSV, JSON or XLSX.

Usage:
  statement-table-extractor [flags] <input.pdf> [input2.pdf ...]
  statement-table-extractor -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Auto-detect family and convert
  statement-table-extractor statement.pdf

  # JSON report with summary statistics
  statement-table-extractor -format=json -output=report.json statement.pdf

  # Recalibrated columns for a shifted template
  statement-table-extractor -family=posb -config=posb.yaml statement.pdf

Environment:
  PORT, MAX_UPLOAD_BYTES, DEFAULT_FAMILY, CALIBRATION_FILE,
  LOG_LEVEL, LOG_FORMAT, PDF_FALLBACK_PDFTOTEXT
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-table-extractor v%s\n", api.Version)
		os.Exit(0)
	}

	var envFiles []string
	if *envFlag != "" {
		envFiles = append(envFiles, *envFlag)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fatalf("Invalid configuration: %v\n", err)
	}
	log := cfg.NewLogger(os.Stderr)
	slog.SetDefault(log)

	if *configFlag != "" {
		cfg.CalibrationFile = *configFlag
	}
	if *familyFlag != "" {
		cfg.DefaultFamily = *familyFlag
	}

	if *serveFlag {
		if err := serve(cfg, log); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	opts := options{
		calibration:   cfg.CalibrationFile,
		format:        strings.ToLower(*formatFlag),
		includeHeader: *headerFlag,
		debug:         *debugFlag,
		extract:       extractor.Options{FallbackPdftotext: cfg.FallbackPdftotext},
	}
	if _, err := writer.ForFormat(opts.format, opts.includeHeader); err != nil {
		fatalf("%v\n", err)
	}
	if cfg.DefaultFamily != "" {
		family, err := parser.ParseFamily(cfg.DefaultFamily)
		if err != nil {
			fatalf("%v\n", err)
		}
		opts.family = family
	}

	inputFiles := flag.Args()
	if *outputFlag != "" && len(inputFiles) > 1 {
		fatalf("-output can only be used with a single input file\n")
	}
	opts.output = *outputFlag

	for _, inputPath := range inputFiles {
		if err := processFile(inputPath, opts, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(inputPath string, opts options, log *slog.Logger) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	doc, err := extractor.ExtractDocument(inputPath, opts.extract)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	fmt.Printf("  Extracted words from %d page(s)\n", len(doc.Pages))

	family := opts.family
	var fallback string
	if family == "" {
		family, fallback = parser.DetectFamily(doc.Pages)
		if fallback == "" {
			fmt.Printf("  Auto-detected family: %s\n", family)
		}
	}

	cfg, err := parser.ResolveConfig(family, opts.calibration)
	if err != nil {
		return err
	}

	session := parser.NewSession(cfg, family, log)
	session.Debug = opts.debug
	if fallback != "" {
		session.AddWarning(fallback)
	}
	result := session.Parse(doc)

	for _, w := range result.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
	if !result.Success {
		return fmt.Errorf("parsing aborted: %s", result.AbortReason)
	}

	fmt.Printf("  Found %d transaction(s), confidence %.2f\n", len(result.Data), result.Confidence)

	if opts.debug {
		for _, d := range result.DebugLines {
			fmt.Printf("  [p%d #%03d y=%7.2f] %-12s %s\n", d.Page, d.Index, d.Y, d.Result, d.Text)
		}
	}

	if len(result.Data) == 0 {
		fmt.Println("  Warning: No transactions found. The column calibration may not match this template.")
		fmt.Println("  Try a calibration file with -config, or -debug to see how each line was classified.")
	}

	outPath := opts.output
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + writer.Extension(opts.format)
	}

	w, err := writer.ForFormat(opts.format, opts.includeHeader)
	if err != nil {
		return err
	}
	if err := w.WriteToFile(outPath, result); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)

	s := writer.Summarize(result.Data)
	fmt.Printf("  Total withdrawals: %s\n", s.TotalWithdrawals.StringFixed(2))
	fmt.Printf("  Total deposits:    %s\n", s.TotalDeposits.StringFixed(2))
	fmt.Printf("  Net change:        %s\n", s.NetChange.StringFixed(2))
	if s.CalculatedChange.Valid {
		fmt.Printf("  Balance change:    %s\n", s.CalculatedChange.Decimal.StringFixed(2))
	}

	fmt.Println("  Done.")
	return nil
}

func serve(cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	extractOpts := extractor.Options{FallbackPdftotext: cfg.FallbackPdftotext}
	h := &api.Handler{
		Log:     log,
		Metrics: metrics.New(reg),
		Extract: func(path string) (models.Document, error) {
			return extractor.ExtractDocument(path, extractOpts)
		},
		DefaultFamily:   cfg.DefaultFamily,
		CalibrationFile: cfg.CalibrationFile,
	}
	app := api.NewApp(h, cfg.MaxUploadBytes, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + strconv.Itoa(cfg.Port)
		log.Info("listening", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
