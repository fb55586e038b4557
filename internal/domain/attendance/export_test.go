package attendance

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExportTwoRowsInInputOrder(t *testing.T) {
	in := at("2025-11-03T09:00:00Z")
	out := at("2025-11-03T17:30:00Z")
	rows := []JoinedRecord{
		{
			Record: Record{ID: "r1", Date: "2025-11-03", CheckInTime: &in, CheckOutTime: &out, Status: StatusPresent, TotalHours: 8.5},
			User:   &UserRef{Name: "John Doe", Email: "john@example.com", EmployeeID: "EMP001", Department: "Engineering"},
		},
		{
			Record: Record{ID: "r2", Date: "2025-11-03", Status: StatusLate},
			User:   &UserRef{Name: "Smith, Jane", Email: "jane@example.com", EmployeeID: "EMP002"},
		},
	}

	exported, err := BuildExportRows(rows, time.UTC)
	if err != nil {
		t.Fatalf("build rows: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exported); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != strings.Join(ExportColumns, ",") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "EMP001,John Doe,john@example.com,Engineering,2025-11-03,2025-11-03T09:00:00Z,2025-11-03T17:30:00Z,present,8.5" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[2] != `EMP002,"Smith, Jane",jane@example.com,,2025-11-03,,,late,0` {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestBuildExportRowsRendersZone(t *testing.T) {
	in := at("2025-11-03T07:00:00Z")
	rows := []JoinedRecord{{Record: Record{Date: "2025-11-03", CheckInTime: &in, Status: StatusPresent}, User: &UserRef{EmployeeID: "EMP001"}}}
	got, err := BuildExportRows(rows, time.FixedZone("UTC+2", 2*60*60))
	if err != nil {
		t.Fatalf("build rows: %v", err)
	}
	if got[0].CheckIn != "2025-11-03T09:00:00+02:00" || got[0].CheckOut != "" {
		t.Fatalf("unexpected stamps %q %q", got[0].CheckIn, got[0].CheckOut)
	}
}

func TestBuildExportRowsFailsOnDanglingUser(t *testing.T) {
	rows := []JoinedRecord{
		{Record: Record{ID: "r1"}, User: &UserRef{EmployeeID: "EMP001"}},
		{Record: Record{ID: "r2"}},
	}
	got, err := BuildExportRows(rows, time.UTC)
	if !errors.Is(err, ErrDanglingUser) {
		t.Fatalf("expected ErrDanglingUser, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no rows on failure, got %d", len(got))
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if buf.String() != strings.Join(ExportColumns, ",")+"\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWritePDF(t *testing.T) {
	rows := []ExportRow{{EmployeeID: "EMP001", Name: "John Doe", Date: "2025-11-03", Status: "present", TotalHours: "8"}}
	var buf bytes.Buffer
	if err := WritePDF(&buf, rows, "Attendance export"); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %d bytes", buf.Len())
	}
}
