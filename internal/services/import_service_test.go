package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/akshara-learn/examportal-service/internal/models"
)

// buildWorkbook writes a header row plus the given data rows into an
// in-memory xlsx workbook.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	header := []interface{}{"Question", "Option A", "Option B", "Option C", "Option D", "Correct"}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return buf
}

func newImportFixture(t *testing.T) (ImportService, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	repo.tests[1] = &models.MockTest{ID: 1, Category: models.CategoryGeneral, Title: "Imported", CreatedAt: time.Now()}
	return NewImportService(repo, testLogger()), repo
}

func TestImportTestQuestions(t *testing.T) {
	svc, repo := newImportFixture(t)

	buf := buildWorkbook(t, [][]interface{}{
		{"Capital of Kerala?", "Kochi", "Thiruvananthapuram", "Kozhikode", "Thrissur", "B"},
		{"2 + 2?", "3", "4", "5", "6", "b"}, // lowercase label is accepted
		{"Largest planet?", "Mars", "Venus", "Jupiter", "Saturn", "C"},
	})

	report, err := svc.ImportTestQuestions(context.Background(), 1, buf)
	if err != nil {
		t.Fatalf("ImportTestQuestions failed: %v", err)
	}

	if report.Imported != 3 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if got := len(repo.tests[1].Questions); got != 3 {
		t.Fatalf("expected 3 stored questions, got %d", got)
	}

	first := repo.tests[1].Questions[0]
	if first.Text != "Capital of Kerala?" || first.CorrectOption != models.OptionB {
		t.Errorf("unexpected first question: %+v", first)
	}
}

func TestImportTestQuestions_SkipsBadRows(t *testing.T) {
	svc, repo := newImportFixture(t)

	buf := buildWorkbook(t, [][]interface{}{
		{"Good question?", "a", "b", "c", "d", "A"},
		{"", "a", "b", "c", "d", "A"},            // empty question text
		{"Bad label?", "a", "b", "c", "d", "E"},  // label outside A-D
		{"Too short", "a", "b"},                  // missing columns
	})

	report, err := svc.ImportTestQuestions(context.Background(), 1, buf)
	if err != nil {
		t.Fatalf("ImportTestQuestions failed: %v", err)
	}

	if report.Imported != 1 {
		t.Errorf("imported = %d, want 1", report.Imported)
	}
	if len(report.Skipped) != 3 {
		t.Fatalf("skipped = %v, want 3 entries", report.Skipped)
	}
	// Skip reasons carry 1-based row numbers including the header.
	if !strings.HasPrefix(report.Skipped[0], "row 3:") {
		t.Errorf("unexpected skip entry: %q", report.Skipped[0])
	}
	if got := len(repo.tests[1].Questions); got != 1 {
		t.Errorf("expected 1 stored question, got %d", got)
	}
}

func TestImportTestQuestions_UnknownTest(t *testing.T) {
	svc, _ := newImportFixture(t)

	buf := buildWorkbook(t, nil)
	if _, err := svc.ImportTestQuestions(context.Background(), 99, buf); !IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestImportTestQuestions_NotAWorkbook(t *testing.T) {
	svc, _ := newImportFixture(t)

	if _, err := svc.ImportTestQuestions(context.Background(), 1, strings.NewReader("plain text")); !IsValidation(err) {
		t.Errorf("expected ValidationError for a non-xlsx payload, got %v", err)
	}
}
