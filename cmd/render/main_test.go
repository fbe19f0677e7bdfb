package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ridepulse/internal/bookings"
	"ridepulse/internal/dashboard"
	apierrors "ridepulse/internal/errors"
	"ridepulse/internal/shared/testutil"
	"ridepulse/pkg/contracts"
	"ridepulse/pkg/contracts/domain"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	path, err := testutil.NewBookingFixtures(t.TempDir()).WriteCSV("bookings.csv", testutil.SampleRows()...)
	require.NoError(t, err)
	return path
}

func runRender(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	err := run(context.Background(), args, &stdout, io.Discard)
	return stdout.String(), err
}

func TestRun_SingleView(t *testing.T) {
	data := writeDataset(t)

	t.Run("csv to stdout", func(t *testing.T) {
		out, err := runRender(t, "-data", data, "-view", "revenue", "-start", "2024-01-01", "-end", "2024-01-31", "-format", "csv")
		require.NoError(t, err)
		assert.Contains(t, out, "section,item,label,x,value,size,unit")
		assert.Contains(t, out, "meta,view,REVENUE")
		assert.Contains(t, out, "2024-01-01..2024-01-31")
	})

	t.Run("json with categorical filter", func(t *testing.T) {
		out, err := runRender(t, "-data", data, "-view", "Overall", "-vehicle-type", "auto")
		require.NoError(t, err)

		var vm domain.ViewModel
		require.NoError(t, json.Unmarshal([]byte(out), &vm))
		assert.Equal(t, domain.ViewOverview, vm.View)
		assert.Equal(t, "auto", vm.Filters.VehicleType)
		assert.NotZero(t, vm.RowCount)
	})

	t.Run("xlsx to file", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "nested", "ratings.xlsx")
		out, err := runRender(t, "-data", data, "-view", "RATINGS", "-format", "xlsx", "-out", target)
		require.NoError(t, err)
		assert.Empty(t, out)

		f, err := excelize.OpenFile(target)
		require.NoError(t, err)
		defer f.Close()
		assert.NotEmpty(t, f.GetSheetList())
	})
}

func TestRun_AllViews(t *testing.T) {
	data := writeDataset(t)

	t.Run("json array", func(t *testing.T) {
		out, err := runRender(t, "-data", data, "-all")
		require.NoError(t, err)

		var models []domain.ViewModel
		require.NoError(t, json.Unmarshal([]byte(out), &models))
		require.Len(t, models, len(domain.Views))
		assert.Equal(t, domain.ViewOverview, models[0].View)
	})

	t.Run("workbook", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "dashboard.xlsx")
		_, err := runRender(t, "-data", data, "-all", "-format", "xlsx", "-out", target)
		require.NoError(t, err)

		f, err := excelize.OpenFile(target)
		require.NoError(t, err)
		defer f.Close()
		assert.GreaterOrEqual(t, len(f.GetSheetList()), len(domain.Views))
	})
}

func TestRun_Errors(t *testing.T) {
	data := writeDataset(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown view", []string{"-data", data, "-view", "MAP"}, dashboard.ErrUnknownView},
		{"unsupported format", []string{"-data", data, "-format", "pdf"}, apierrors.ErrUnsupportedFormat},
		{"csv for every view", []string{"-data", data, "-all", "-format", "csv"}, apierrors.ErrUnsupportedFormat},
		{"missing dataset", []string{"-data", filepath.Join(t.TempDir(), "absent.csv")}, bookings.ErrDataUnavailable},
		{"categorical filter on revenue", []string{"-data", data, "-view", "REVENUE", "-vehicle-type", "auto"}, dashboard.ErrFilterNotSupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRender(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed date", func(t *testing.T) {
		_, err := runRender(t, "-data", data, "-start", "01/02/2024")
		assert.ErrorContains(t, err, "start")
	})
}

func TestRun_Version(t *testing.T) {
	out, err := runRender(t, "-version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "RidePulse v"+contracts.Version), out)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		opts options
		want string
	}{
		{"json defaults to stdout", options{format: "json"}, ""},
		{"explicit stdout", options{format: "xlsx", out: "-"}, ""},
		{"explicit file", options{format: "csv", out: "a.csv"}, "a.csv"},
		{"xlsx defaults to export dir", options{format: "xlsx"}, filepath.Join("exports", "ridepulse-overview.xlsx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.opts, "exports", "ridepulse-overview"))
		})
	}
}
