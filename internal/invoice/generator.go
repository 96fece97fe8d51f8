// Package invoice renders downloadable PDF invoices. Rendering is pure: it
// takes the already-derived billing data, performs no I/O besides building
// the document bytes, and has no failure path beyond the PDF writer itself.
package invoice

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/store"
)

// Document is a rendered invoice ready for download.
type Document struct {
	Filename string
	Content  []byte
}

var whitespace = regexp.MustCompile(`\s+`)

// StudentFilename derives the deterministic download name for a student
// invoice: whitespace runs in the name collapse to underscores.
func StudentFilename(name string) string {
	return "invoice_" + whitespace.ReplaceAllString(name, "_") + ".pdf"
}

// TeacherFilename derives the download name for a teacher invoice.
func TeacherFilename(name string) string {
	return "invoice-" + whitespace.ReplaceAllString(name, "_") + ".pdf"
}

// FormatTotal renders a money total with two decimal places.
func FormatTotal(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func formatCost(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// BuildStudentInvoice renders the billing summary and check-in history for
// one student. The class and teacher labels are fixed values, not derived
// from the student's enrollment; the business has asked to keep them as-is.
// nextMonth, when non-nil, adds the requested lesson count and the projected
// tuition at the student's rate.
func BuildStudentInvoice(student application.StudentWithStats, checkIns []store.CheckIn, nextMonth *int, loc *time.Location) (Document, error) {
	if loc == nil {
		loc = time.UTC
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	writeLabelled(pdf, "Student Name:", student.Name)
	writeLabelled(pdf, "Class:", "English")
	writeLabelled(pdf, "Teacher:", "Ken")

	if nextMonth != nil {
		writeLabelled(pdf, "Next Month's Lessons:", strconv.Itoa(*nextMonth))
		writeLabelled(pdf, "Projected Tuition:", FormatTotal(float64(*nextMonth)*student.CostPerLesson))
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(70, 8, "Lesson Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Price", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	total := 0.0
	for _, checkIn := range checkIns {
		lessonType := checkIn.LessonType
		if lessonType == "" {
			lessonType = "N/A"
		}
		pdf.CellFormat(70, 8, lessonType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 8, checkIn.Time(loc).Format("Jan 2, 2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, formatCost(checkIn.LessonCost), "1", 1, "C", false, 0, "")
		total += checkIn.LessonCost
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 8, "Total Payable:", "", 0, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(40, 8, FormatTotal(total), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Thank you for your business!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("invoice: render student invoice: %w", err)
	}
	return Document{Filename: StudentFilename(student.Name), Content: buf.Bytes()}, nil
}

// BuildTeacherInvoice renders the minimal teacher invoice.
func BuildTeacherInvoice(teacherName string) (Document, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 22)
	pdf.CellFormat(0, 12, "Teacher Invoice", "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 10, "Name: "+teacherName, "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("invoice: render teacher invoice: %w", err)
	}
	return Document{Filename: TeacherFilename(teacherName), Content: buf.Bytes()}, nil
}

func writeLabelled(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 8, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
}
