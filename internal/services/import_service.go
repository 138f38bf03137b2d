package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
)

// importService loads question banks from xlsx workbooks. Expected columns:
// question text, options A through D, correct option label.
type importService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewImportService(repo repositories.Repository, logger *slog.Logger) ImportService {
	return &importService{
		repo:   repo,
		logger: logger,
	}
}

func (s *importService) ImportTestQuestions(ctx context.Context, testID uint, r io.Reader) (*ImportReport, error) {
	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("test", testID)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewValidationError("file", "not a readable xlsx workbook", nil)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "workbook has no sheets", nil)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	report := &ImportReport{TestID: test.ID}
	questions := make([]*models.Question, 0, len(rows))

	for i, row := range rows {
		// Row 1 is the header.
		if i == 0 {
			continue
		}

		q, reason := parseQuestionRow(row)
		if reason != "" {
			report.Skipped = append(report.Skipped, fmt.Sprintf("row %d: %s", i+1, reason))
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) > 0 {
		if err := s.repo.Test().AddQuestions(ctx, test.ID, questions); err != nil {
			return nil, fmt.Errorf("failed to store imported questions: %w", err)
		}
	}

	report.Imported = len(questions)

	s.logger.Info("question import finished",
		"test_id", test.ID,
		"imported", report.Imported,
		"skipped", len(report.Skipped),
	)

	return report, nil
}

func parseQuestionRow(row []string) (*models.Question, string) {
	if len(row) < 6 {
		return nil, "expected 6 columns"
	}

	cells := make([]string, 6)
	for i := 0; i < 6; i++ {
		cells[i] = strings.TrimSpace(row[i])
	}

	for i, name := range []string{"question", "option A", "option B", "option C", "option D", "correct option"} {
		if cells[i] == "" {
			return nil, "empty " + name
		}
	}

	label := models.OptionLabel(strings.ToUpper(cells[5]))
	if !models.ValidOptionLabel(label) {
		return nil, "correct option must be A, B, C or D"
	}

	return &models.Question{
		Text:          cells[0],
		OptionA:       cells[1],
		OptionB:       cells[2],
		OptionC:       cells[3],
		OptionD:       cells[4],
		CorrectOption: label,
	}, ""
}
