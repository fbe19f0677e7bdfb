// Command render renders one dashboard view, or every view, from a booking
// dataset to JSON, CSV or XLSX.
//
//	render -data data/ncr_ride_bookings.csv -view REVENUE -start 2024-01-01 -end 2024-03-31 -format csv
//	render -data sheets://<spreadsheet-id>/Bookings!A1:M -all -format xlsx -out dashboard.xlsx
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ridepulse/internal/bookings"
	"ridepulse/internal/config"
	"ridepulse/internal/dashboard"
	apierrors "ridepulse/internal/errors"
	"ridepulse/internal/infrastructure"
	"ridepulse/internal/services"
	"ridepulse/internal/session"
	"ridepulse/pkg/contracts"
	api "ridepulse/pkg/contracts/api/v1"
	"ridepulse/pkg/contracts/domain"
)

// options are the parsed command line flags
type options struct {
	data          string
	view          string
	start         string
	end           string
	vehicleType   string
	status        string
	paymentMethod string
	format        string
	out           string
	all           bool
	version       bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.data, "data", "", "CSV/XLSX path or sheets://<id>/<range> (defaults to the configured dataset)")
	fs.StringVar(&opts.view, "view", string(domain.DefaultView), "OVERVIEW | VEHICLE_TYPE | REVENUE | CANCELLATION | RATINGS")
	fs.StringVar(&opts.start, "start", "", "range start, YYYY-MM-DD (defaults to the view default)")
	fs.StringVar(&opts.end, "end", "", "range end, YYYY-MM-DD (defaults to the view default)")
	fs.StringVar(&opts.vehicleType, "vehicle-type", "", "vehicle type filter (OVERVIEW only)")
	fs.StringVar(&opts.status, "status", "", "booking status filter (OVERVIEW only)")
	fs.StringVar(&opts.paymentMethod, "payment-method", "", "payment method filter (OVERVIEW only)")
	fs.StringVar(&opts.format, "format", services.FormatJSON, "json | csv | xlsx")
	fs.StringVar(&opts.out, "out", "", "output file, - for stdout (xlsx defaults to the export directory)")
	fs.BoolVar(&opts.all, "all", false, "render every view with its defaults")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.format = strings.ToLower(opts.format)
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		_, err := fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	if opts.data == "" {
		opts.data = cfg.Dataset.Source
	}

	state, err := renderState(opts)
	if err != nil {
		return err
	}

	svc, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if _, err := svc.LoadDataset(ctx, opts.data); err != nil {
		return err
	}

	var buf bytes.Buffer
	name := "ridepulse-" + strings.ToLower(string(state.View))
	switch {
	case opts.all && opts.format == services.FormatXLSX:
		name = "ridepulse-dashboard"
		err = svc.ExportWorkbook(ctx, &buf)
	case opts.all && opts.format == services.FormatJSON:
		name = "ridepulse-dashboard"
		err = encodeAll(ctx, svc, &buf)
	case opts.all:
		err = fmt.Errorf("%w: -all supports json and xlsx, got %q", apierrors.ErrUnsupportedFormat, opts.format)
	default:
		_, err = svc.Export(ctx, state, opts.format, &buf)
	}
	if err != nil {
		return err
	}

	target := outputPath(opts, cfg.Export.Dir, name)
	if target == "" {
		_, err = buf.WriteTo(stdout)
		return err
	}
	if err := writeFile(target, buf.Bytes()); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Render written",
		slog.String("path", target),
		slog.String("format", opts.format),
		slog.Int("bytes", buf.Len()))
	return nil
}

func renderState(opts options) (dashboard.RenderState, error) {
	view, ok := domain.ParseView(opts.view)
	if !ok {
		return dashboard.RenderState{}, fmt.Errorf("%w: %q", dashboard.ErrUnknownView, opts.view)
	}
	req := api.FilterRequest{
		DateRangeRequest: api.DateRangeRequest{Start: opts.start, End: opts.end},
		VehicleType:      opts.vehicleType,
		Status:           opts.status,
		PaymentMethod:    opts.paymentMethod,
	}
	filters, err := req.ToFilters()
	if err != nil {
		return dashboard.RenderState{}, err
	}
	return dashboard.RenderState{View: view, Filters: filters}, nil
}

func newService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services.DashboardService, error) {
	var loaderOpts []bookings.LoaderOption
	if cfg.Dataset.SheetsEnabled() {
		client, err := bookings.NewSheetsClient(ctx, cfg.Dataset.SheetsAPIKey, cfg.Dataset.SheetsCredentialsFile)
		if err != nil {
			return nil, err
		}
		loaderOpts = append(loaderOpts, bookings.WithSheetsFetcher(client))
	}

	store := session.NewStore(session.StoreConfig{MaxSessions: 1}, logger)
	return services.NewDashboardService(bookings.NewLoader(logger, loaderOpts...), store, logger,
		services.WithLoadTimeout(cfg.Dataset.LoadTimeout),
		services.WithCSVBOM(cfg.Export.BOMPrefix),
	), nil
}

func encodeAll(ctx context.Context, svc *services.DashboardService, out io.Writer) error {
	models, err := svc.RenderAll(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(models)
}

// outputPath returns "" for stdout. Binary xlsx never goes to stdout unless
// asked for with -out -.
func outputPath(opts options, exportDir, name string) string {
	switch {
	case opts.out == "-":
		return ""
	case opts.out != "":
		return opts.out
	case opts.format == services.FormatXLSX:
		return filepath.Join(exportDir, name+"."+services.FormatXLSX)
	default:
		return ""
	}
}

func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}
