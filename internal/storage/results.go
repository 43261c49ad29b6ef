package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultStore архив завершенных интервью
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(db *sql.DB) *ResultStore {
	return &ResultStore{db: db}
}

// SaveResult сохраняет результат интервью. Пустые id и время заполняются.
func (s *ResultStore) SaveResult(ctx context.Context, result *InterviewResult) error {
	if result.InterviewID == "" {
		result.InterviewID = uuid.New().String()
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interview_result
			(id, created_at, full_name, position, company_name, language, score, decision, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.InterviewID,
		result.Timestamp,
		result.Applicant.FullName,
		result.Applicant.Position,
		result.Applicant.CompanyName,
		result.Applicant.Language,
		result.Evaluation.OverallScore,
		result.Evaluation.Decision,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("ошибка записи результата %s: %w", result.InterviewID, err)
	}

	return nil
}

// LoadResult загружает результат интервью по id
func (s *ResultStore) LoadResult(ctx context.Context, interviewID string) (*InterviewResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM interview_result WHERE id = ?", interviewID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения результата %s: %w", interviewID, err)
	}

	var result InterviewResult
	err = json.Unmarshal([]byte(payload), &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &result, nil
}

// ListResults возвращает краткий список сохраненных интервью, новые первыми
func (s *ResultStore) ListResults(ctx context.Context) ([]ResultSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, full_name, position, company_name, language, score, decision
		FROM interview_result
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка результатов: %w", err)
	}
	defer rows.Close()

	results := []ResultSummary{}
	for rows.Next() {
		var r ResultSummary
		err = rows.Scan(&r.InterviewID, &r.Timestamp, &r.FullName, &r.Position, &r.CompanyName, &r.Language, &r.Score, &r.Decision)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки результата: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
