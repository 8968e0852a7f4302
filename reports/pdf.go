package reports

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// BuildPDF renders the usage report: a summary page and a day-by-day table
// page, in the same plain style as the parking pass.
func BuildPDF(rep UsageReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	// Page 1: header + summary block
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Parking Usage Report")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Building: %s", rep.Building))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", rep.GeneratedAt.Format("02 Jan 2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Window: trailing %d days", len(rep.Days)))
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 10, "Summary")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total slots: %d", rep.TotalSlots))
	pdf.Ln(8)
	mostBooked := rep.MostBookedSlot
	if mostBooked == "" {
		mostBooked = "-"
	}
	pdf.Cell(0, 8, fmt.Sprintf("Most booked slot: %s", mostBooked))
	pdf.Ln(8)
	if rep.PeakHour >= 0 {
		pdf.Cell(0, 8, fmt.Sprintf("Peak booking hour: %02d:00 - %02d:00", rep.PeakHour, rep.PeakHour+1))
	} else {
		pdf.Cell(0, 8, "Peak booking hour: -")
	}
	pdf.Ln(8)

	// Page 2: day-by-day table
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 10, "Day by day")
	pdf.Ln(12)

	colW := []float64{40.0, 35.0, 35.0, 45.0}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range []string{"Day", "Booked", "Free", "Unauthorized"} {
		pdf.CellFormat(colW[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	for _, d := range rep.Days {
		pdf.CellFormat(colW[0], 8, d.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 8, fmt.Sprintf("%d", d.Booked), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, fmt.Sprintf("%d", d.Free), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[3], 8, fmt.Sprintf("%d", d.Unauthorized), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
