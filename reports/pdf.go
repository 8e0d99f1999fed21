package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const instituteName = "Alva's Institute of Engineering and Technology"

// WritePDF renders the report rows as a PDF document: title, institute
// header, generation timestamp, a summary block when all rows share one
// subject and date, then a striped table.
func WritePDF(w io.Writer, rows []Row, title string) error {
	if title == "" {
		title = "Attendance Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, instituteName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if subject, date, ok := singleSession(rows); ok {
		present := 0
		for _, r := range rows {
			if r.Status == "present" {
				present++
			}
		}
		pct := 0.0
		if len(rows) > 0 {
			pct = float64(present) / float64(len(rows)) * 100
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Subject: %s    Date: %s", subject, date), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Total: %d    Present: %d    Absent: %d    Attendance: %.2f%%",
			len(rows), present, len(rows)-present, pct), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	headers := []string{"Roll No", "Student Name", "Status", "Time", "Subject", "Date"}
	widths := []float64{25, 55, 20, 20, 45, 25}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(41, 84, 144)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, r := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(235, 235, 235)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{r.RollNo, r.StudentName, r.Status, r.Time, r.SubjectName, r.Date}
		for j, cell := range cells {
			pdf.CellFormat(widths[j], 7, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// singleSession reports the shared subject and date when every row belongs
// to the same class session.
func singleSession(rows []Row) (subject, date string, ok bool) {
	if len(rows) == 0 {
		return "", "", false
	}
	subject = fmt.Sprintf("%s (%s)", rows[0].SubjectName, rows[0].SubjectCode)
	date = rows[0].Date
	for _, r := range rows[1:] {
		if r.SubjectID != rows[0].SubjectID || r.Date != rows[0].Date {
			return "", "", false
		}
	}
	return subject, date, true
}
