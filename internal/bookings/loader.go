package bookings

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/blake2b"
)

// utf8BOM is stripped from the start of CSV input
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NullFloat is a numeric cell that may be missing
type NullFloat struct {
	Value float64
	Valid bool
}

// RawRecord is one source row decoded by header name, before derivation
type RawRecord struct {
	Row            int
	Date           string
	Time           string
	BookingID      string
	Status         string
	VehicleType    string
	RideDistance   NullFloat
	BookingValue   NullFloat
	DriverRating   NullFloat
	CustomerRating NullFloat
	PaymentMethod  string
	CustomerID     string
	CustomerReason string
	DriverReason   string
}

// RawDataset is the loader output
type RawDataset struct {
	Source      string
	Fingerprint string
	LoadedAt    time.Time
	Records     []RawRecord
}

// Loader reads booking datasets from files or Google Sheets
type Loader struct {
	logger *slog.Logger
	sheets SheetsFetcher
	now    func() time.Time
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithSheetsFetcher enables sheets:// sources
func WithSheetsFetcher(f SheetsFetcher) LoaderOption {
	return func(l *Loader) { l.sheets = f }
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		logger: logger.With(slog.String("component", "bookings_loader")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the full record set from source. CSV and XLSX are chosen by file
// extension; "sheets://<spreadsheet-id>/<range>" reads a Google Sheets range.
func (l *Loader) Load(ctx context.Context, source string) (*RawDataset, error) {
	start := l.now()

	var (
		rows        [][]string
		fingerprint string
		err         error
	)
	if IsSheetsSource(source) {
		rows, fingerprint, err = l.readSheets(ctx, source)
	} else {
		rows, fingerprint, err = l.readFile(source)
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	records, err := decodeRows(ctx, source, rows)
	if err != nil {
		l.logger.ErrorContext(ctx, "dataset decode failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", source),
		slog.Int("rows", len(records)),
		slog.String("fingerprint", fingerprint),
		slog.Duration("duration", l.now().Sub(start)))

	return &RawDataset{
		Source:      source,
		Fingerprint: fingerprint,
		LoadedAt:    start,
		Records:     records,
	}, nil
}

// readFile reads a CSV or XLSX file into a header-first row grid
func (l *Loader) readFile(path string) ([][]string, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", unavailable(path, fmt.Errorf("file %s was not found", filepath.Base(path)))
		}
		return nil, "", unavailable(path, err)
	}
	fingerprint := Fingerprint(content)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err := readWorkbook(path, content)
		return rows, fingerprint, err
	default:
		rows, err := readCSV(path, content)
		return rows, fingerprint, err
	}
}

// Fingerprint returns the hex BLAKE2b-256 digest of the dataset bytes
func Fingerprint(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func readCSV(source string, content []byte) ([][]string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, malformed(source, err)
	}
	if len(records) == 0 {
		return nil, missingColumns(source, RequiredColumns)
	}
	return records, nil
}

// readWorkbook returns the first sheet whose header row carries every required
// column. When none does, the first sheet's missing columns are reported.
func readWorkbook(source string, content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, malformed(source, err)
	}
	defer f.Close()

	var firstMissing []string
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil || len(rows) == 0 {
			continue
		}
		_, missing := findColumnIndices(rows[0])
		if len(missing) == 0 {
			normalizeSerials(rows)
			return rows, nil
		}
		if i == 0 {
			firstMissing = missing
		}
	}
	if firstMissing == nil {
		firstMissing = RequiredColumns
	}
	return nil, missingColumns(source, firstMissing)
}

// decodeRows maps a header-first grid onto RawRecords
func decodeRows(ctx context.Context, source string, rows [][]string) ([]RawRecord, error) {
	if len(rows) == 0 {
		return nil, missingColumns(source, RequiredColumns)
	}
	cols, missing := findColumnIndices(rows[0])
	if len(missing) > 0 {
		return nil, missingColumns(source, missing)
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, unavailable(source, err)
			}
		}
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 1

		rec := RawRecord{
			Row:            rowNum,
			Date:           strings.TrimSpace(cols.cell(row, ColDate)),
			Time:           strings.TrimSpace(cols.cell(row, ColTime)),
			BookingID:      textCell(cols.cell(row, ColBookingID)),
			Status:         textCell(cols.cell(row, ColStatus)),
			VehicleType:    textCell(cols.cell(row, ColVehicleType)),
			PaymentMethod:  textCell(cols.cell(row, ColPaymentMethod)),
			CustomerID:     textCell(cols.cell(row, ColCustomerID)),
			CustomerReason: textCell(cols.cell(row, ColCustomerReason)),
			DriverReason:   textCell(cols.cell(row, ColDriverReason)),
		}

		numeric := []struct {
			name string
			dst  *NullFloat
		}{
			{ColRideDistance, &rec.RideDistance},
			{ColBookingValue, &rec.BookingValue},
			{ColDriverRating, &rec.DriverRating},
			{ColCustomerRating, &rec.CustomerRating},
		}
		for _, n := range numeric {
			v, err := parseNullFloat(cols.cell(row, n.name))
			if err != nil {
				return nil, badCell(source, rowNum, n.name, err)
			}
			*n.dst = v
		}

		records = append(records, rec)
	}
	return records, nil
}

func textCell(s string) string {
	if isNA(s) {
		return ""
	}
	return s
}

func parseNullFloat(s string) (NullFloat, error) {
	if isNA(s) {
		return NullFloat{}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	switch {
	case err != nil:
		return NullFloat{}, fmt.Errorf("not a number: %q", s)
	case math.IsNaN(v):
		return NullFloat{}, nil
	case math.IsInf(v, 0):
		return NullFloat{}, fmt.Errorf("not a finite number: %q", s)
	}
	return NullFloat{Value: v, Valid: true}, nil
}

// maxSerialDay is the serial of 9999-12-31, the last date a spreadsheet holds
const maxSerialDay = 2958466

// normalizeSerials rewrites numeric Date and Time cells into the layouts the
// deriver parses. Unformatted spreadsheet reads return those cells as day
// serials; text cells are left alone.
func normalizeSerials(rows [][]string) {
	if len(rows) < 2 {
		return
	}
	cols, _ := findColumnIndices(rows[0])
	for _, row := range rows[1:] {
		rewriteSerial(row, cols, ColDate, dateLayouts[0])
		rewriteSerial(row, cols, ColTime, TimeLayout)
	}
}

func rewriteSerial(row []string, cols columnIndex, name, layout string) {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil || !(serial >= 0 && serial < maxSerialDay) {
		return
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return
	}
	row[idx] = t.Round(time.Second).Format(layout)
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
