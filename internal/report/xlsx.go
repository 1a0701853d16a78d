package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// WriteXLSX writes a workbook with a summary sheet and one module sheet per
// test that has a result.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{
		{"Generated", formatTime(r.GeneratedAt)},
		{"Session", r.SessionID},
		{"Overall risk", string(r.Risk)},
		{},
		{"Test", "Completed", "Completed at", "Score", "Rating", "Percentage", "Risk"},
	}
	for _, s := range r.Tests {
		row := []any{s.Test.DisplayName(), yesNo(s.Completed), formatTime(s.CompletedAt), s.Score, s.Rating}
		if s.Result != nil {
			row = append(row, s.Result.Percentage, string(s.Result.Risk))
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	for _, s := range r.Tests {
		if s.Result == nil {
			continue
		}
		name := s.Test.DisplayName()
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
		rows := [][]any{{"Area", "Score", "Max", "Percentage", "Questions"}}
		for _, m := range s.Result.SortedModules() {
			rows = append(rows, []any{m.Module.DisplayName(), m.Score, m.MaxScore, m.Percentage, m.Questions})
		}
		rows = append(rows, []any{}, []any{"Total", s.Result.Score, s.Result.MaxScore, s.Result.Percentage, s.Result.Answered})
		if s.Result.Weighted != nil {
			rows = append(rows, []any{"Weighted", s.Result.Weighted.Score})
		}
		if err := writeRows(f, name, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
