// Package importer converts between uploaded spreadsheets and the bulk-upload
// row batches consumed by the record services.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/validator"
)

var attendanceHeader = []string{"USN", "Date", "Hour", "Subject", "Status"}
var marksHeader = []string{"USN", "Subject", "IA1", "IA2"}

// ParseAttendanceSheet reads the first worksheet of an .xlsx attendance sheet.
// The faculty email is taken from the authenticated uploader, not the file.
func ParseAttendanceSheet(r io.Reader, facultyEmail string) ([]validator.AttendanceRow, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(rows, attendanceHeader); err != nil {
		return nil, err
	}

	out := make([]validator.AttendanceRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) < len(attendanceHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(attendanceHeader), len(row))
		}
		out = append(out, validator.AttendanceRow{
			USN:          strings.TrimSpace(row[0]),
			Date:         strings.TrimSpace(row[1]),
			Hour:         strings.TrimSpace(row[2]),
			Subject:      strings.TrimSpace(row[3]),
			FacultyEmail: facultyEmail,
			Status:       models.AttendanceStatus(strings.ToLower(strings.TrimSpace(row[4]))),
		})
	}
	return out, nil
}

// ParseMarksSheet reads the first worksheet of an .xlsx IA-marks sheet.
func ParseMarksSheet(r io.Reader, facultyEmail string) ([]validator.MarkRow, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(rows, marksHeader); err != nil {
		return nil, err
	}

	out := make([]validator.MarkRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) < len(marksHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(marksHeader), len(row))
		}
		ia1, err := parseScore(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: IA1: %w", i+2, err)
		}
		ia2, err := parseScore(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: IA2: %w", i+2, err)
		}
		out = append(out, validator.MarkRow{
			USN:          strings.TrimSpace(row[0]),
			Subject:      strings.TrimSpace(row[1]),
			FacultyEmail: facultyEmail,
			IA1:          ia1,
			IA2:          ia2,
		})
	}
	return out, nil
}

// BuildAttendanceWorkbook renders records into the export sheet layout:
// Date, Hour, Subject, USN, Attendance.
func BuildAttendanceWorkbook(records []*models.AttendanceRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Date", "Hour", "Subject", "USN", "Attendance"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{record.Date, record.Hour, record.Subject, record.USN, string(record.Status)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func readRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func checkHeader(rows [][]string, want []string) error {
	if len(rows) == 0 {
		return fmt.Errorf("spreadsheet is empty")
	}
	header := rows[0]
	if len(header) < len(want) {
		return fmt.Errorf("unexpected header: want columns %v", want)
	}
	for i, col := range want {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return fmt.Errorf("unexpected header column %d: want %q, got %q", i+1, col, header[i])
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseScore(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q", s)
	}
	return v, nil
}
