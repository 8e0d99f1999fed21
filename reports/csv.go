package reports

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"roll_no", "student_name", "branch", "semester", "section",
	"subject_code", "subject_name", "date", "time", "status",
}

// WriteCSV renders the report rows as delimited text. Re-parsing the output
// yields the same row count and field values.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.RollNo,
			r.StudentName,
			r.Branch,
			strconv.Itoa(r.Semester),
			r.Section,
			r.SubjectCode,
			r.SubjectName,
			r.Date,
			r.Time,
			r.Status,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
