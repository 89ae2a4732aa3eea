package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cohortly-org/cohortly/cohort"
	"github.com/cohortly-org/cohortly/helpers"
	"github.com/cohortly-org/cohortly/report"
	"github.com/cohortly-org/cohortly/simulate"
)

// ============================================================================
// COHORTLY CLI — Simulate orders, compute retention, export reports
// ============================================================================

const version = "0.1.0"

const defaultOrdersFile = "synthetic_orders.csv"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	filePath := flag.String("file", defaultOrdersFile, "Path to orders CSV file")
	doSimulate := flag.Bool("simulate", false, "Generate synthetic orders before analyzing")
	force := flag.Bool("force", false, "Regenerate orders even if the file already exists")
	configPath := flag.String("config", "", "Path to simulation config JSON")
	seed := flag.Int64("seed", 0, "Simulation seed (overrides config)")
	customers := flag.Int("customers", 0, "Number of customers to simulate (overrides config)")
	orderDraws := flag.Int("orders", 0, "Number of repeat-order draws (overrides config)")
	fromMonth := flag.String("from", "", "Only analyze orders from this month on (e.g. Jan-2023)")
	toMonth := flag.String("to", "", "Only analyze orders up to this month (e.g. May-2024)")
	format := flag.String("format", "json", "Output format: json, pretty, csv, xlsx")
	outFile := flag.String("out", "", "Write json/pretty/xlsx output to this file")
	outDir := flag.String("out-dir", ".", "Directory for csv output files")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Cohortly — cohort retention analytics for order data

Usage:
  cohortly --simulate --format xlsx --out report.xlsx
  cohortly --file orders.csv --format csv --out-dir exports/
  cohortly --file orders.csv --from Jan-2023 --to Dec-2023 --format pretty

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Formats:
  json      Full JSON result: matrix, churn report, chart config (default)
  pretty    Pretty-printed JSON
  csv       retention_matrix.csv + cohort_churn_risk_report.csv in --out-dir
  xlsx      Styled workbook (default name formatted_churn_risk_report.xlsx)

Examples:
  # Generate data and produce the styled executive workbook
  cohortly --simulate --seed 7 --format xlsx

  # Analyze an existing export and get Sheets-ready CSVs
  cohortly --file orders.csv --format csv --out-dir exports/
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("cohortly %s\n", version)
		os.Exit(0)
	}

	// ── Simulate ──────────────────────────────────────────────────────────
	if *doSimulate {
		if _, err := os.Stat(*filePath); err == nil && !*force {
			log.Printf("♻️ Reusing existing %s (use --force to regenerate)", *filePath)
		} else {
			cfg := simulate.DefaultConfig()
			if *configPath != "" {
				loaded, err := simulate.LoadConfig(*configPath)
				if err != nil {
					fatalf("Failed to load config: %v", err)
				}
				cfg = loaded
			}
			if *seed != 0 {
				cfg.Seed = *seed
			}
			if *customers != 0 {
				cfg.NumCustomers = *customers
			}
			if *orderDraws != 0 {
				cfg.NumOrders = *orderDraws
			}

			orders, customers, err := simulate.Generate(cfg)
			if err != nil {
				fatalf("Simulation failed: %v", err)
			}
			f, err := os.Create(*filePath)
			if err != nil {
				fatalf("Failed to create orders file: %v", err)
			}
			if err := helpers.WriteOrders(f, orders); err != nil {
				f.Close()
				fatalf("Failed to write orders: %v", err)
			}
			f.Close()
			log.Printf("✅ Generated %s orders for %s customers into %s",
				cohort.FormatInt(len(orders)), cohort.FormatInt(len(customers)), *filePath)
		}
	}

	// ── Load orders ───────────────────────────────────────────────────────
	data, err := os.ReadFile(*filePath)
	if err != nil {
		fatalf("Failed to read orders file: %v", err)
	}
	orders, err := helpers.ParseOrders(data)
	if err != nil {
		fatalf("Failed to parse orders CSV: %v", err)
	}
	log.Printf("📊 Parsed %s orders", cohort.FormatInt(len(orders)))

	view := cohort.NewSliceView(orders)
	if *fromMonth != "" || *toMonth != "" {
		var from, to cohort.Month
		if *fromMonth != "" {
			if from, err = cohort.ParseMonth(*fromMonth); err != nil {
				fatalf("Invalid --from: %v", err)
			}
		}
		if *toMonth != "" {
			if to, err = cohort.ParseMonth(*toMonth); err != nil {
				fatalf("Invalid --to: %v", err)
			}
		}
		view = cohort.FilterMonths(view, from, to)
		log.Printf("🔍 %s orders after month filter", cohort.FormatInt(view.Len()))
	}

	// ── Compute ───────────────────────────────────────────────────────────
	matrix := cohort.BuildMatrix(view)
	churn := report.BuildChurnReport(matrix, time.Now())
	log.Printf("🧮 %d cohorts, widest window %d months", len(matrix.Cohorts), matrix.MaxOffset+1)

	// ── Export ────────────────────────────────────────────────────────────
	switch *format {
	case "csv":
		writeCSVReports(*outDir, matrix, churn)

	case "xlsx":
		path := *outFile
		if path == "" {
			path = "formatted_churn_risk_report.xlsx"
		}
		if err := report.WriteWorkbook(path, matrix, churn); err != nil {
			fatalf("Workbook export failed: %v", err)
		}
		log.Printf("📄 Styled workbook written to %s", path)

	case "json", "pretty":
		out := cliOutput{
			RunID:       churn.RunID,
			GeneratedAt: churn.GeneratedAt,
			Matrix:      matrix,
			ChurnReport: churn,
			MatrixTable: report.BuildMatrixTable(matrix),
			ChurnTable:  report.BuildChurnTable(churn),
			Chart:       report.BuildRetentionChart(matrix),
		}
		writeJSON(*outFile, out, *format)

	default:
		fatalf("Unknown format %q (want json, pretty, csv, or xlsx)", *format)
	}
}

// ============================================================================
// OUTPUT TYPES
// ============================================================================

type cliOutput struct {
	RunID       string              `json:"runId"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Matrix      cohort.Matrix       `json:"matrix"`
	ChurnReport report.ChurnReport  `json:"churnReport"`
	MatrixTable *report.TableData   `json:"matrixTable"`
	ChurnTable  *report.TableData   `json:"churnTable"`
	Chart       *report.ChartConfig `json:"chart,omitempty"`
}

// ============================================================================
// EXPORT HELPERS
// ============================================================================

func writeCSVReports(dir string, matrix cohort.Matrix, churn report.ChurnReport) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatalf("Failed to create output directory: %v", err)
	}

	writeTable := func(name string, table *report.TableData) {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			fatalf("Failed to create %s: %v", path, err)
		}
		defer f.Close()
		if err := report.WriteTableCSV(f, table); err != nil {
			fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("📄 CSV written to %s", path)
	}

	writeTable("retention_matrix.csv", report.BuildMatrixTable(matrix))
	writeTable("cohort_churn_risk_report.csv", report.BuildChurnTable(churn))
}

func writeJSON(outFile string, v interface{}, format string) {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		w = f
		log.Printf("📄 JSON written to %s", outFile)
	}
	fmt.Fprintln(w, string(out))
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
