// utils/excel.go
package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SafeSetCell writes a value at a cell reference, redirecting writes that
// land inside a merged region to that region's anchor (top-left) cell —
// excelize silently drops writes to non-anchor merged cells otherwise.
// Nil values are skipped so callers can pass optional fields straight through.
func SafeSetCell(f *excelize.File, sheet, cell string, value interface{}) error {
	if value == nil {
		return nil
	}
	anchor, err := resolveMergedAnchor(f, sheet, cell)
	if err != nil {
		return err
	}
	if s, ok := value.(string); ok {
		// Templates carry their own 年 suffix next to the year box; strip a
		// typed one so the form doesn't read 令和7年年.
		if strings.HasSuffix(s, "年") && isAllDigits(strings.TrimSuffix(s, "年")) {
			value = strings.TrimSuffix(s, "年")
		}
	}
	return f.SetCellValue(sheet, anchor, value)
}

// SafeSetCellCentered is SafeSetCell plus centered alignment, used for the
// single-glyph category marks.
func SafeSetCellCentered(f *excelize.File, sheet, cell string, value interface{}) error {
	if err := SafeSetCell(f, sheet, cell, value); err != nil {
		return err
	}
	anchor, err := resolveMergedAnchor(f, sheet, cell)
	if err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, anchor, anchor, style)
}

func resolveMergedAnchor(f *excelize.File, sheet, cell string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return "", fmt.Errorf("bad cell reference %q: %w", cell, err)
	}
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return cell, nil
	}
	for _, mc := range merged {
		sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		ec, er, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		if col >= sc && col <= ec && row >= sr && row <= er {
			return mc.GetStartAxis(), nil
		}
	}
	return cell, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CellRef builds an A1-style reference from 1-based column and row.
func CellRef(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// ReiwaDate renders a date in era-relative form, e.g. 令和7年9月1日.
// Reiwa year N = gregorian year − 2018.
func ReiwaDate(t time.Time) string {
	return fmt.Sprintf("令和%d年%d月%d日", t.Year()-2018, int(t.Month()), t.Day())
}
