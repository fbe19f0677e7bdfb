package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"ridepulse/pkg/contracts/domain"
)

// maxSheetName is Excel's sheet name length limit
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

// WriteViewXLSX writes vm as a workbook with a KPIs sheet followed by one
// sheet per chart and per table.
func WriteViewXLSX(out io.Writer, vm *domain.ViewModel) error {
	if vm == nil {
		return fmt.Errorf("nil view model")
	}

	wb := newWorkbook()
	defer wb.file.Close()

	kpis := [][]interface{}{}
	for _, card := range vm.Cards {
		kpis = append(kpis, []interface{}{card.Key, card.Title, card.Value, card.Unit})
	}
	if err := wb.addSheet("KPIs", []string{"Key", "Title", "Value", "Unit"}, kpis); err != nil {
		return err
	}

	for _, chart := range vm.Charts {
		rows := [][]interface{}{}
		for _, series := range chart.Series {
			for _, p := range series.Points {
				rows = append(rows, []interface{}{series.Name, p.Label, p.X, p.Value, p.Size})
			}
		}
		if err := wb.addSheet(chart.ID, []string{"Series", "Label", "X", "Value", "Size"}, rows); err != nil {
			return err
		}
	}

	for _, table := range vm.Tables {
		rows := make([][]interface{}, 0, len(table.Rows))
		for _, row := range table.Rows {
			cells := make([]interface{}, len(row))
			for i, cell := range row {
				cells[i] = cell
			}
			rows = append(rows, cells)
		}
		if err := wb.addSheet(table.ID, table.Columns, rows); err != nil {
			return err
		}
	}

	return wb.write(out)
}

// WriteWorkbookXLSX writes one long-format sheet per view model, named after
// the view.
func WriteWorkbookXLSX(out io.Writer, models []*domain.ViewModel) error {
	if len(models) == 0 {
		return fmt.Errorf("no view models to export")
	}

	wb := newWorkbook()
	defer wb.file.Close()

	for _, vm := range models {
		if vm == nil {
			continue
		}
		records := ViewRecords(vm)
		rows := make([][]interface{}, 0, len(records))
		for _, record := range records {
			cells := make([]interface{}, len(record))
			for i, cell := range record {
				cells[i] = cell
			}
			rows = append(rows, cells)
		}
		if err := wb.addSheet(string(vm.View), ViewHeaders, rows); err != nil {
			return err
		}
	}

	return wb.write(out)
}

// SheetName makes name a valid Excel sheet name
func SheetName(name string) string {
	name = sheetNameReplacer.Replace(strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

type workbook struct {
	file   *excelize.File
	sheets int
	header int
}

func newWorkbook() *workbook {
	return &workbook{file: excelize.NewFile()}
}

func (wb *workbook) addSheet(name string, headers []string, rows [][]interface{}) error {
	name = wb.uniqueName(SheetName(name))

	if wb.sheets == 0 {
		// excelize.NewFile starts with Sheet1; reuse it for the first sheet
		if err := wb.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
		style, err := wb.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		wb.header = style
	} else if _, err := wb.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	wb.sheets++

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := wb.file.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}
	if err := wb.file.SetRowStyle(name, 1, 1, wb.header); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.file.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, name, err)
		}
	}
	return nil
}

func (wb *workbook) uniqueName(name string) string {
	if idx, _ := wb.file.GetSheetIndex(name); idx < 0 || wb.sheets == 0 {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate := name
		if len(candidate)+len(suffix) > maxSheetName {
			candidate = candidate[:maxSheetName-len(suffix)]
		}
		candidate += suffix
		if idx, _ := wb.file.GetSheetIndex(candidate); idx < 0 {
			return candidate
		}
	}
}

func (wb *workbook) write(out io.Writer) error {
	if wb.sheets == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	wb.file.SetActiveSheet(0)
	if err := wb.file.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
