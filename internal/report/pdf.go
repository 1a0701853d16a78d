package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the report as a one-page-per-test PDF.
func WritePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Dyslexia screening report", false)
	pdf.SetFont("Arial", "B", 16)
	pdf.AddPage()

	pdf.Cell(40, 10, "Dyslexia screening report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, "Generated: "+formatTime(r.GeneratedAt))
	pdf.Ln(7)
	if r.SessionID != "" {
		pdf.Cell(0, 7, "Session: "+r.SessionID)
		pdf.Ln(7)
	}
	risk := string(r.Risk)
	if risk == "" {
		risk = "not assessed"
	}
	pdf.Cell(0, 7, "Overall risk: "+risk)
	pdf.Ln(12)

	// Summary table.
	pdf.SetFont("Arial", "B", 11)
	for _, h := range []struct {
		text  string
		width float64
	}{{"Test", 45}, {"Completed", 30}, {"Score", 25}, {"Rating", 25}, {"Risk", 30}} {
		pdf.CellFormat(h.width, 8, h.text, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, s := range r.Tests {
		risk := "-"
		if s.Result != nil {
			risk = string(s.Result.Risk)
		}
		pdf.CellFormat(45, 8, s.Test.DisplayName(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, yesNo(s.Completed), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", s.Score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", s.Rating), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, risk, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	for _, s := range r.Tests {
		if s.Result == nil {
			continue
		}
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, s.Test.DisplayName()+" test")
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf(
			"Score %d of %d (%.1f%%), %d questions, %d weak areas. Risk: %s.",
			s.Result.Score, s.Result.MaxScore, s.Result.Percentage,
			s.Result.Answered, s.Result.Underperforming, s.Result.Risk,
		), "", "L", false)
		if s.Result.Weighted != nil {
			pdf.MultiCell(0, 6, fmt.Sprintf("Weighted language score: %d / 100", s.Result.Weighted.Score), "", "L", false)
		}
		pdf.Ln(4)

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(80, 8, "Area", "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, "Points", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, "Percent", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 11)
		for _, m := range s.Result.SortedModules() {
			pdf.CellFormat(80, 8, m.Module.DisplayName(), "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 8, fmt.Sprintf("%d / %d", m.Score, m.MaxScore), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 8, fmt.Sprintf("%.0f%%", m.Percentage), "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
