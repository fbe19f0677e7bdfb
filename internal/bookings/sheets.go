package bookings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const sheetsScheme = "sheets://"

// SheetsFetcher reads a cell range from a spreadsheet
type SheetsFetcher interface {
	FetchValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

// IsSheetsSource reports whether source names a Google Sheets range
func IsSheetsSource(source string) bool {
	return strings.HasPrefix(source, sheetsScheme)
}

// ParseSheetsSource splits "sheets://<id>/<range>" into its parts. The range
// defaults to the first sheet when omitted.
func ParseSheetsSource(source string) (spreadsheetID, readRange string, err error) {
	rest := strings.TrimPrefix(source, sheetsScheme)
	spreadsheetID, readRange, _ = strings.Cut(rest, "/")
	if spreadsheetID == "" {
		return "", "", fmt.Errorf("sheets source %q has no spreadsheet id", source)
	}
	if readRange == "" {
		readRange = "A:Z"
	}
	return spreadsheetID, readRange, nil
}

// SheetsClient fetches values through the Sheets v4 API
type SheetsClient struct {
	service *sheets.Service
}

// NewSheetsClient creates a Sheets client authenticated with an API key or a
// service-account credentials file. At least one must be set.
func NewSheetsClient(ctx context.Context, apiKey, credentialsFile string) (*SheetsClient, error) {
	var opts []option.ClientOption
	switch {
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile), option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	default:
		return nil, fmt.Errorf("sheets client requires an API key or a credentials file")
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsClient{service: svc}, nil
}

// FetchValues implements SheetsFetcher. Values come back unformatted so
// numbers carry no grouping separators, and dates as day serials.
func (c *SheetsClient) FetchValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (l *Loader) readSheets(ctx context.Context, source string) ([][]string, string, error) {
	if l.sheets == nil {
		return nil, "", unavailable(source, fmt.Errorf("google sheets access is not configured"))
	}
	id, rng, err := ParseSheetsSource(source)
	if err != nil {
		return nil, "", unavailable(source, err)
	}

	values, err := l.sheets.FetchValues(ctx, id, rng)
	if err != nil {
		return nil, "", unavailable(source, err)
	}

	rows := sheetValuesToRows(values)
	fingerprint := Fingerprint([]byte(flattenRows(rows)))
	normalizeSerials(rows)
	return rows, fingerprint, nil
}

// sheetValuesToRows converts the API's untyped cells into strings
func sheetValuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, vals := range values {
		row := make([]string, len(vals))
		for j, v := range vals {
			switch v := v.(type) {
			case nil:
			case float64:
				row[j] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				row[j] = fmt.Sprint(v)
			}
		}
		rows[i] = row
	}
	return rows
}

func flattenRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\x1f"))
		b.WriteByte('\n')
	}
	return b.String()
}
