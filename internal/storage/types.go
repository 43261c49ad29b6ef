package storage

import (
	"errors"
	"time"

	"voice-interview/internal/interview"
)

// ErrNotFound запись отсутствует
var ErrNotFound = errors.New("not found")

// InterviewResult представляет результат всего интервью
type InterviewResult struct {
	InterviewID  string                  `json:"interviewId"`
	Timestamp    time.Time               `json:"timestamp"`
	Applicant    interview.ApplicantInfo `json:"applicant"`
	Introduction string                  `json:"introduction"`
	Answers      []interview.Answer      `json:"answers"`
	Evaluation   interview.Evaluation    `json:"evaluation"`
}

// ResultSummary строка списка результатов
type ResultSummary struct {
	InterviewID string    `json:"interviewId"`
	Timestamp   time.Time `json:"timestamp"`
	FullName    string    `json:"fullName"`
	Position    string    `json:"position"`
	CompanyName string    `json:"companyName"`
	Language    string    `json:"language"`
	Score       int       `json:"overallScore"`
	Decision    string    `json:"decision"`
}
