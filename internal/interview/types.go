package interview

// Question вопрос интервью. Неизменяем в рамках сессии
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"question"`
}

// Answer ответ кандидата на вопрос
type Answer struct {
	QuestionID      int    `json:"questionId"`
	QuestionText    string `json:"question"`
	AnswerText      string `json:"answer"`
	MarkedForReview bool   `json:"markedForReview"`
}

// Evaluation итоговая оценка интервью
type Evaluation struct {
	OverallScore    int      `json:"overallScore"`
	Decision        string   `json:"decision"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Passed сообщает, набран ли проходной балл
func (e *Evaluation) Passed(threshold int) bool {
	return e != nil && e.OverallScore >= threshold
}
