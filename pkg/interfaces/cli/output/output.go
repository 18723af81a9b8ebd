package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/vsinha/picking/pkg/application/dto"
	"github.com/vsinha/picking/pkg/domain/entities"
)

// Formats supported by Generate
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Generate writes report in the configured format. Text and JSON go to w
// unless an output directory is set; CSV writes picks.csv and shortages.csv
// into the output directory, or the picks to w when none is set.
func Generate(w io.Writer, report *dto.PickingReport, config Config) error {
	switch config.Format {
	case FormatText, "":
		return generateTextOutput(w, report, config)
	case FormatJSON:
		return generateJSONOutput(w, report, config)
	case FormatCSV:
		return generateCSVOutput(w, report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, report *dto.PickingReport, config Config) error {
	if config.OutputDir != "" {
		file, path, err := createOutputFile(config.OutputDir, "picking_results.txt")
		if err != nil {
			return err
		}
		defer file.Close()
		if config.Verbose {
			fmt.Fprintf(w, "💾 Results saved to: %s\n", path)
		}
		w = file
	}

	fmt.Fprintf(w, "📦 Picking Results\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Run: %s\n", report.RunID)
	fmt.Fprintf(w, "Outcome: %s\n", report.Outcome)
	fmt.Fprintf(w, "Picks: %d at %d locations, %d aisle changes\n", len(report.Solution), report.Locations, report.AisleChanges)
	fmt.Fprintf(w, "Fill Rate: %s%%\n", report.FillRate.Shift(2).StringFixed(2))
	fmt.Fprintf(w, "Calculation Time: %v\n\n", report.Duration)

	if len(report.Solution) > 0 {
		fmt.Fprintf(w, "🧭 Pick List:\n")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tProduct\tQty\tLocation\tBatch")
		fmt.Fprintln(tw, "-\t-------\t---\t--------\t-----")
		for i, pick := range report.Solution {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i+1, pick.ProductID, pick.Quantity, pick.Location, pick.BatchID)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if config.Verbose && len(report.Products) > 0 {
		fmt.Fprintf(w, "📊 Products:\n")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Product\tRequested\tPicked\tMissing\tFill Rate")
		for _, line := range report.Products {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", line.ProductID, line.Requested, line.Picked, line.Missing, line.FillRate.StringFixed(4))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(report.Shortages) > 0 {
		fmt.Fprintf(w, "⚠️  Shortages:\n")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Product\tProduct Number\tMissing")
		for _, shortage := range report.Shortages {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", shortage.ProductID, shortage.ProductNumber, shortage.QuantityMissing)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(w io.Writer, report *dto.PickingReport, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "picking_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output
func generateCSVOutput(w io.Writer, report *dto.PickingReport, config Config) error {
	if config.OutputDir == "" {
		return writePicksCSV(w, report.Solution)
	}

	picksFile, picksPath, err := createOutputFile(config.OutputDir, "picks.csv")
	if err != nil {
		return err
	}
	defer picksFile.Close()
	if err := writePicksCSV(picksFile, report.Solution); err != nil {
		return fmt.Errorf("failed to write picks CSV: %w", err)
	}

	shortagesFile, shortagesPath, err := createOutputFile(config.OutputDir, "shortages.csv")
	if err != nil {
		return err
	}
	defer shortagesFile.Close()
	if err := writeShortagesCSV(shortagesFile, report.Shortages); err != nil {
		return fmt.Errorf("failed to write shortages CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Picks: %s\n", picksPath)
		fmt.Fprintf(w, "  Shortages: %s\n", shortagesPath)
	}
	return nil
}

func createOutputFile(dir, name string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	return file, path, nil
}

// writePicksCSV writes the solution in walking order using the stock.csv location columns
func writePicksCSV(w io.Writer, solution entities.PickingSolution) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"sequence", "product_id", "quantity", "location_kind", "warehouse_id", "bin_id", "process_type", "process_id", "batch_id"}); err != nil {
		return err
	}
	for i, pick := range solution {
		record := []string{
			strconv.Itoa(i + 1),
			string(pick.ProductID),
			strconv.FormatInt(int64(pick.Quantity), 10),
			pick.Location.Kind.String(),
			string(pick.Location.WarehouseID),
			string(pick.Location.BinID),
			pick.Location.ProcessType,
			pick.Location.ProcessID,
			string(pick.BatchID),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeShortagesCSV(w io.Writer, shortages []entities.StockShortage) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"product_id", "product_number", "quantity_missing"}); err != nil {
		return err
	}
	for _, shortage := range shortages {
		record := []string{
			string(shortage.ProductID),
			shortage.ProductNumber,
			strconv.FormatInt(int64(shortage.QuantityMissing), 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
