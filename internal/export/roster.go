// Package export builds spreadsheet snapshots of the dashboard data for
// offline bookkeeping.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/tutoring-dashboard/internal/application"
)

const (
	studentsSheet = "Students"
	checkInsSheet = "Check-ins"
)

// RosterWorkbook renders the student roster and the active check-in table as
// a two-sheet xlsx workbook and returns its bytes.
func RosterWorkbook(students []application.StudentWithStats, checkIns []application.CheckInRow, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), studentsSheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := book.NewSheet(checkInsSheet); err != nil {
		return nil, fmt.Errorf("export: add sheet: %w", err)
	}

	if err := writeStudents(book, students); err != nil {
		return nil, err
	}
	if err := writeCheckIns(book, checkIns, loc); err != nil {
		return nil, err
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStudents(book *excelize.File, students []application.StudentWithStats) error {
	headers := []any{"Name", "Email", "Signed Up Lessons", "Completed Lessons", "Cost Per Lesson", "Amount Owed"}
	if err := book.SetSheetRow(studentsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("export: write student headers: %w", err)
	}
	for i, student := range students {
		row := []any{
			student.Name,
			student.Email,
			student.SignedUpLessons,
			student.CompletedLessons,
			student.CostPerLesson,
			student.TotalAmountOwed,
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := book.SetSheetRow(studentsSheet, cell, &row); err != nil {
			return fmt.Errorf("export: write student row: %w", err)
		}
	}
	return nil
}

func writeCheckIns(book *excelize.File, checkIns []application.CheckInRow, loc *time.Location) error {
	headers := []any{"Student", "Lesson Type", "Date", "Session", "Cost"}
	if err := book.SetSheetRow(checkInsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("export: write check-in headers: %w", err)
	}
	for i, row := range checkIns {
		values := []any{
			row.StudentName,
			row.LessonType,
			row.Time(loc).Format("2006-01-02 15:04"),
			string(row.Session),
			row.LessonCost,
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := book.SetSheetRow(checkInsSheet, cell, &values); err != nil {
			return fmt.Errorf("export: write check-in row: %w", err)
		}
	}
	return nil
}

// ContentType is the MIME type for xlsx downloads.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
