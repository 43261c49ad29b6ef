package interviewer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"voice-interview/internal/interview"
)

type rawQuestion struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
}

type rawEvaluation struct {
	OverallScore    *float64 `json:"overallScore"`
	Decision        string   `json:"decision"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// ParseQuestions разбирает ответ модели с вопросами.
// Принимает как {"questions": [...]}, так и голый массив.
// Пустые вопросы отбрасываются; при повторяющихся или невалидных id вопросы перенумеровываются по порядку.
func ParseQuestions(content string) ([]interview.Question, error) {
	var raw []rawQuestion

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return nil, fmt.Errorf("ошибка парсинга вопросов: %w", err)
		}
	} else {
		var wrapper struct {
			Questions []rawQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return nil, fmt.Errorf("ошибка парсинга вопросов: %w", err)
		}
		raw = wrapper.Questions
	}

	questions := make([]interview.Question, 0, len(raw))
	seen := make(map[int]bool)
	renumber := false
	for _, q := range raw {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			continue
		}
		if q.ID <= 0 || seen[q.ID] {
			renumber = true
		}
		seen[q.ID] = true
		questions = append(questions, interview.Question{ID: q.ID, Text: text})
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("модель не вернула ни одного вопроса")
	}

	if renumber {
		for i := range questions {
			questions[i].ID = i + 1
		}
	}

	return questions, nil
}

// ParseEvaluation разбирает оценку. Балл округляется и ограничивается диапазоном 0..100.
func ParseEvaluation(content string) (*interview.Evaluation, error) {
	var raw rawEvaluation
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("ошибка парсинга оценки: %w", err)
	}

	if raw.OverallScore == nil {
		return nil, fmt.Errorf("в оценке нет overallScore")
	}

	score := int(math.Round(*raw.OverallScore))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &interview.Evaluation{
		OverallScore:    score,
		Decision:        strings.TrimSpace(raw.Decision),
		Strengths:       cleanList(raw.Strengths),
		Weaknesses:      cleanList(raw.Weaknesses),
		Recommendations: cleanList(raw.Recommendations),
	}, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
