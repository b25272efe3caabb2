// Command budget-export renders the current budget to a report file
// without starting the web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/export"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

func main() {
	formatFlag := flag.String("format", "csv", "report format: csv, xlsx, or pdf")
	outFlag := flag.String("out", "", "output path (default: Monthly_Budget_<Month>_<Year>.<ext> in the working directory)")
	flag.Parse()

	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelWarn,
		Component: applog.ComponentExport,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	format := export.Format(*formatFlag)
	if !format.IsValid() {
		fmt.Fprintf(os.Stderr, "unknown format %q: want csv, xlsx, or pdf\n", *formatFlag)
		os.Exit(2)
	}

	store, err := backend.Open(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SnapshotPath: cfg.SnapshotPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open snapshot store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	led, err := ledger.Load(context.Background(), store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load ledger: %v\n", err)
		os.Exit(1)
	}
	snap := led.Export()

	var data []byte
	switch format {
	case export.FormatCSV:
		data, err = export.WriteCSV(snap)
	case export.FormatXLSX:
		data, err = export.WriteXLSX(snap)
	case export.FormatPDF:
		data, err = export.NewPDFWriter(cfg.PDFFontPath).Write(snap)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "render report: %v\n", err)
		os.Exit(1)
	}

	out := *outFlag
	if out == "" {
		out = export.Filename(format, time.Now())
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", out, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
}
