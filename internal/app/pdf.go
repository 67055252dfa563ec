package app

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// optionLetters label options on the review sheet.
var optionLetters = []string{"A", "B", "C", "D"}

// writeReviewPDF renders a printable sheet for the human reviewer. The first
// option of each question is marked because it is the provisional key.
func writeReviewPDF(c Course, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(c.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(c.Title), "", "L", false)
	if c.Description != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(c.Description), "", "L", false)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d questions, source sha256 %s", c.Count, c.Source.SHA256), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, q := range c.Questions {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, q.Text)), "", "L", false)
		for j, opt := range q.Options {
			style := ""
			mark := "   "
			if j == q.CorrectAnswer {
				style = "B"
				mark = "*  "
			}
			pdf.SetFont("Helvetica", style, 10)
			label := opt
			if j < len(optionLetters) {
				label = optionLetters[j] + ") " + opt
			}
			pdf.MultiCell(0, 5, tr(mark+label), "", "L", false)
		}
		pdf.Ln(3)
	}
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "* provisional answer key; confirm before publishing", "", "L", false)
	return pdf.OutputFileAndClose(outPath)
}
