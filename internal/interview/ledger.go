package interview

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultNoAnswerText текст для вопросов без записанной речи
const DefaultNoAnswerText = "No answer provided."

var ErrUnknownQuestion = errors.New("question is not part of the session")

// Ledger хранит ответы по вопросам сессии.
// Одна запись на вопрос, порядок - порядок первой записи.
// Не потокобезопасен: владелец (сессия) сериализует доступ.
type Ledger struct {
	questions    []Question
	entries      []Answer
	index        map[int]int
	noAnswerText string
}

// NewLedger создает пустой журнал ответов для набора вопросов
func NewLedger(questions []Question, noAnswerText string) *Ledger {
	if noAnswerText == "" {
		noAnswerText = DefaultNoAnswerText
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Ledger{
		questions:    qs,
		index:        make(map[int]int),
		noAnswerText: noAnswerText,
	}
}

// NoAnswerText возвращает текст-заглушку
func (l *Ledger) NoAnswerText() string {
	return l.noAnswerText
}

// Upsert записывает ответ, сохраняя текущую отметку "на проверку"
func (l *Ledger) Upsert(questionID int, questionText, answerText string) error {
	return l.upsert(questionID, questionText, answerText, nil)
}

// UpsertWithReview записывает ответ и явно задает отметку "на проверку"
func (l *Ledger) UpsertWithReview(questionID int, questionText, answerText string, marked bool) error {
	return l.upsert(questionID, questionText, answerText, &marked)
}

func (l *Ledger) upsert(questionID int, questionText, answerText string, marked *bool) error {
	if !l.hasQuestion(questionID) {
		return fmt.Errorf("upsert answer %d: %w", questionID, ErrUnknownQuestion)
	}

	if i, ok := l.index[questionID]; ok {
		entry := &l.entries[i]
		entry.QuestionText = questionText
		entry.AnswerText = answerText
		if marked != nil {
			entry.MarkedForReview = *marked
		}
		return nil
	}

	entry := Answer{
		QuestionID:   questionID,
		QuestionText: questionText,
		AnswerText:   answerText,
	}
	if marked != nil {
		entry.MarkedForReview = *marked
	}
	l.index[questionID] = len(l.entries)
	l.entries = append(l.entries, entry)
	return nil
}

// ToggleReview переключает отметку "на проверку" и возвращает новое значение.
// Если ответа еще нет, создается запись с пустым текстом, чтобы отметка не потерялась.
func (l *Ledger) ToggleReview(questionID int) (bool, error) {
	if i, ok := l.index[questionID]; ok {
		l.entries[i].MarkedForReview = !l.entries[i].MarkedForReview
		return l.entries[i].MarkedForReview, nil
	}

	q, ok := l.question(questionID)
	if !ok {
		return false, fmt.Errorf("toggle review %d: %w", questionID, ErrUnknownQuestion)
	}
	if err := l.UpsertWithReview(q.ID, q.Text, "", true); err != nil {
		return false, err
	}
	return true, nil
}

// Get возвращает ответ на вопрос, если он есть
func (l *Ledger) Get(questionID int) (Answer, bool) {
	i, ok := l.index[questionID]
	if !ok {
		return Answer{}, false
	}
	return l.entries[i], true
}

// Entries возвращает копию записей в порядке первой записи
func (l *Ledger) Entries() []Answer {
	out := make([]Answer, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Finalize собирает ответы для оценки: по одному на каждый вопрос сессии, в порядке вопросов.
// Вопросы без записанной речи получают текст-заглушку. Журнал не меняется.
func (l *Ledger) Finalize() []Answer {
	out := make([]Answer, 0, len(l.questions))
	for _, q := range l.questions {
		answer, ok := l.Get(q.ID)
		if !ok {
			answer = Answer{QuestionID: q.ID, QuestionText: q.Text}
		}
		if strings.TrimSpace(answer.AnswerText) == "" {
			answer.AnswerText = l.noAnswerText
		}
		out = append(out, answer)
	}
	return out
}

func (l *Ledger) hasQuestion(id int) bool {
	_, ok := l.question(id)
	return ok
}

func (l *Ledger) question(id int) (Question, bool) {
	for _, q := range l.questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
