package files

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ParseRosterXLSX reads the first sheet of a workbook with the same columns
// as the CSV roster.
func ParseRosterXLSX(data []byte) (RosterResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return RosterResult{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RosterResult{}, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RosterResult{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var nonEmpty [][]string
	for _, row := range rows {
		if len(row) > 0 {
			nonEmpty = append(nonEmpty, row)
		}
	}
	return rosterFromRows(nonEmpty)
}
