package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ridepulse/pkg/contracts/domain"
)

// ViewHeaders are the columns of the long-format view export
var ViewHeaders = []string{"section", "item", "label", "x", "value", "size", "unit"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at baseDir. Relative paths passed
// to its methods resolve against baseDir.
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		baseDir: baseDir,
		logger:  logger.With(slog.String("component", "csv_writer")),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.Append {
		options.Headers = nil
		options.BOMPrefix = false
	}
	return EncodeCSV(file, options)
}

// WriteView writes the long-format export of vm to filePath
func (w *CSVWriter) WriteView(filePath string, vm *domain.ViewModel) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   ViewHeaders,
		Records:   ViewRecords(vm),
		BOMPrefix: true,
	})
}

// EncodeCSV writes headers and records to out. Append is ignored.
func EncodeCSV(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ViewRecords flattens a view model into rows matching ViewHeaders. The
// first rows describe the render itself, then cards, chart points and table
// cells follow in presentation order.
func ViewRecords(vm *domain.ViewModel) [][]string {
	if vm == nil {
		return nil
	}

	records := [][]string{
		{"meta", "view", string(vm.View), "", "", "", ""},
		{"meta", "range", vm.Range.Start.String() + ".." + vm.Range.End.String(), "", "", "", ""},
		{"meta", "row_count", "", "", formatInt(vm.RowCount), "", ""},
	}

	for _, card := range vm.Cards {
		records = append(records, []string{"kpi", card.Key, card.Title, "", formatFloat(card.Value), "", card.Unit})
	}

	for _, chart := range vm.Charts {
		for _, series := range chart.Series {
			for _, p := range series.Points {
				records = append(records, []string{
					chart.ID, series.Name, p.Label,
					pointX(chart.Type, p), formatFloat(p.Value), formatOptional(p.Size), "",
				})
			}
		}
	}

	for _, table := range vm.Tables {
		for _, row := range table.Rows {
			if len(row) == 0 {
				continue
			}
			for col := 1; col < len(row) && col < len(table.Columns); col++ {
				records = append(records, []string{table.ID, table.Columns[col], row[0], "", row[col], "", ""})
			}
		}
	}

	return records
}

// pointX returns the numeric x of scatter-like points, blank otherwise
func pointX(t domain.ChartType, p domain.ChartPoint) string {
	switch t {
	case domain.ChartScatter, domain.ChartBubble, domain.ChartHistogram, domain.ChartOverlayHistogram:
		return formatFloat(p.X)
	}
	return ""
}

// resolvePath resolves a path against the writer's base directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
