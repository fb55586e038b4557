package attendance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var ExportColumns = []string{"employeeId", "name", "email", "department", "date", "checkIn", "checkOut", "status", "totalHours"}

type ExportRow struct {
	EmployeeID string
	Name       string
	Email      string
	Department string
	Date       string
	CheckIn    string
	CheckOut   string
	Status     string
	TotalHours string
}

// Values returns the cells in ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{r.EmployeeID, r.Name, r.Email, r.Department, r.Date, r.CheckIn, r.CheckOut, r.Status, r.TotalHours}
}

// BuildExportRows fails on the first row whose user does not resolve.
func BuildExportRows(rows []JoinedRecord, loc *time.Location) ([]ExportRow, error) {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		if r.User == nil {
			return nil, fmt.Errorf("%w: record %s", ErrDanglingUser, r.ID)
		}
		out = append(out, ExportRow{
			EmployeeID: r.User.EmployeeID,
			Name:       r.User.Name,
			Email:      r.User.Email,
			Department: r.User.Department,
			Date:       r.Date,
			CheckIn:    formatStamp(r.CheckInTime, loc),
			CheckOut:   formatStamp(r.CheckOutTime, loc),
			Status:     string(r.Status),
			TotalHours: strconv.FormatFloat(r.TotalHours, 'f', -1, 64),
		})
	}
	return out, nil
}

func formatStamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

// WriteCSV renders the whole table before writing any of it to w.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

var pdfColumnWidths = []float64{20, 34, 50, 28, 22, 40, 40, 18, 18}

// WritePDF renders the rows as a landscape table.
func WritePDF(w io.Writer, rows []ExportRow, title string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(6, 10, 6)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 8)
	for i, col := range ExportColumns {
		pdf.CellFormat(pdfColumnWidths[i], 7, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	for _, r := range rows {
		for i, v := range r.Values() {
			pdf.CellFormat(pdfColumnWidths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
