// Package export writes dashboard data to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/seenimoa/minicharts/internal/datasource"
	"github.com/seenimoa/minicharts/pkg/geometry"
)

// Sheet names in the exported workbook.
const (
	SheetTrends = "Trends"
	SheetRings  = "Rings"
)

// Trends sheet layout: one column per trend after column A, a block of
// computed series statistics, then the raw values.
const (
	statsFirstRow  = 2 // Min, Max, Range, Points
	valuesHeadRow  = 7
	valuesFirstRow = 8
)

var statNames = []string{"Min", "Max", "Range", "Points"}

// WriteWorkbook writes page's trends and ring cards to w as an XLSX
// workbook. Ring values are exported clamped, as they are drawn.
func WriteWorkbook(w io.Writer, page *datasource.Page) error {
	f, err := Workbook(page)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook in memory. The caller closes it.
func Workbook(page *datasource.Page) (*excelize.File, error) {
	if page == nil {
		return nil, fmt.Errorf("page is nil")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetTrends); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetRings); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := writeTrends(f, page.Trends, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRings(f, page, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ════════════════════════════════════════════════════════════════════
// Trends
// ════════════════════════════════════════════════════════════════════

func writeTrends(f *excelize.File, trends []datasource.Trend, bold int) error {
	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetTrends, cell, v)
	}

	if err := set(1, 1, "Series"); err != nil {
		return err
	}
	for i, name := range statNames {
		if err := set(1, statsFirstRow+i, name); err != nil {
			return err
		}
	}
	if err := set(1, valuesHeadRow, "#"); err != nil {
		return err
	}

	longest := 0
	for ti, t := range trends {
		col := ti + 2
		g, err := geometry.Sparkline(t.Values, 0, 0)
		if err != nil {
			return fmt.Errorf("trend %q: %w", t.Label, err)
		}

		if err := set(col, 1, t.Label); err != nil {
			return err
		}
		stats := []any{g.Min, g.Max, g.Range, len(g.Points)}
		for i, v := range stats {
			if err := set(col, statsFirstRow+i, v); err != nil {
				return err
			}
		}
		if err := set(col, valuesHeadRow, t.Label); err != nil {
			return err
		}
		for i, v := range t.Values {
			if !isFinite(v) {
				continue
			}
			if err := set(col, valuesFirstRow+i, v); err != nil {
				return err
			}
		}
		if len(t.Values) > longest {
			longest = len(t.Values)
		}
	}

	for i := 0; i < longest; i++ {
		if err := set(1, valuesFirstRow+i, i+1); err != nil {
			return err
		}
	}

	if err := f.SetRowStyle(SheetTrends, 1, 1, bold); err != nil {
		return err
	}
	return f.SetRowStyle(SheetTrends, valuesHeadRow, valuesHeadRow, bold)
}

// ════════════════════════════════════════════════════════════════════
// Rings
// ════════════════════════════════════════════════════════════════════

var ringHeaders = []string{"Card", "Label", "Value", "Max", "Fraction", "Display"}

type ringRow struct {
	card  string
	score datasource.Score
}

func writeRings(f *excelize.File, page *datasource.Page, bold int) error {
	var rows []ringRow
	for _, s := range page.Scores {
		rows = append(rows, ringRow{"score", s})
	}
	for _, s := range page.Progress {
		rows = append(rows, ringRow{"progress", s})
	}
	if sp := page.Summary; sp != nil {
		rows = append(rows, ringRow{"summary outer", sp.Outer}, ringRow{"summary inner", sp.Inner})
	}

	if err := f.SetSheetRow(SheetRings, "A1", &ringHeaders); err != nil {
		return err
	}
	for i, r := range rows {
		g, err := geometry.RingWithRadius(r.score.Value, r.score.MaxOrDefault(), 1)
		if err != nil {
			return fmt.Errorf("%s %q: %w", r.card, r.score.Label, err)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.card, r.score.Label, g.Value, g.Max, g.Fraction(), g.Label()}
		if err := f.SetSheetRow(SheetRings, cell, &values); err != nil {
			return err
		}
	}
	return f.SetRowStyle(SheetRings, 1, 1, bold)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
