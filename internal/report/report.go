// Package report renders a printable PDF certificate for a finished
// play-through: the winning house, the score table, key moments, and the
// journey transcript.
package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"housequest/internal/game"
)

const (
	margin    = 40
	titleSize = 22
	houseSize = 30
	bodySize  = 10
	smallSize = 8
)

// Generate returns PDF bytes for the sorting certificate. The result
// must be set; the transcript may be empty.
func Generate(res *game.FinalResult, ch game.Character, transcript []game.TranscriptEntry) ([]byte, error) {
	if res == nil {
		return nil, errors.New("no final result to report")
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*margin

	// Parchment-ish frame
	pdf.SetDrawColor(120, 90, 40)
	pdf.SetLineWidth(2)
	pdf.Rect(margin/2, margin/2, pageW-margin, 780, "D")
	pdf.SetLineWidth(0.5)

	pdf.SetFont("Times", "B", titleSize)
	pdf.SetTextColor(60, 40, 20)
	pdf.CellFormat(usable, 30, "Certificate of Sorting", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	name := ch.Name
	if name == "" {
		name = "An unnamed traveler"
	}
	pdf.SetFont("Times", "", bodySize+2)
	pdf.CellFormat(usable, 16, fmt.Sprintf("%s has been sorted into", name), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Times", "B", houseSize)
	pdf.CellFormat(usable, 36, "House "+game.HouseNames[res.House], "", 1, "C", false, 0, "")
	pdf.Ln(14)

	// Score table in ranked order
	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.CellFormat(usable/2, 16, "House", "B", 0, "L", false, 0, "")
	pdf.CellFormat(usable/2, 16, "Score", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize)
	for _, r := range res.Ranked {
		pdf.CellFormat(usable/2, 14, game.HouseNames[r.House], "", 0, "L", false, 0, "")
		pdf.CellFormat(usable/2, 14, fmt.Sprintf("%.3f", r.Score), "", 1, "R", false, 0, "")
	}
	pdf.Ln(14)

	if len(res.KeyMoments) > 0 {
		pdf.SetFont("Times", "B", bodySize+2)
		pdf.CellFormat(usable, 16, "Key Moments", "", 1, "L", false, 0, "")
		pdf.SetFont("Times", "I", bodySize)
		for _, m := range res.KeyMoments {
			pdf.MultiCell(usable, 13, "- "+m, "", "L", false)
		}
		pdf.Ln(10)
	}

	if len(transcript) > 0 {
		pdf.SetFont("Times", "B", bodySize+2)
		pdf.CellFormat(usable, 16, "The Journey", "", 1, "L", false, 0, "")
		pdf.SetFont("Times", "", smallSize+1)
		for _, t := range transcript {
			pdf.SetFont("Times", "B", smallSize+1)
			pdf.MultiCell(usable, 12, t.SceneID, "", "L", false)
			pdf.SetFont("Times", "", smallSize+1)
			pdf.MultiCell(usable, 12, t.Narration, "", "L", false)
			pdf.MultiCell(usable, 12, "> "+t.Choice, "", "L", false)
			pdf.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
