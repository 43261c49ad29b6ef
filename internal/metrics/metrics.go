package metrics

import (
	"sync"
	"time"
)

// Metrics счетчики приложения. Методы безопасны для nil-получателя.
type Metrics struct {
	mu                  sync.RWMutex
	interviewsStarted   int64
	interviewsCompleted int64
	questionsGenerated  int64
	answersRecorded     int64
	evaluationsFailed   int64
	apiCallsTotal       int64
	apiCallsSuccessful  int64
	lastUpdateTime      time.Time
}

// Snapshot копия счетчиков для отдачи наружу
type Snapshot struct {
	InterviewsStarted   int64     `json:"interviewsStarted"`
	InterviewsCompleted int64     `json:"interviewsCompleted"`
	QuestionsGenerated  int64     `json:"questionsGenerated"`
	AnswersRecorded     int64     `json:"answersRecorded"`
	EvaluationsFailed   int64     `json:"evaluationsFailed"`
	APICallsTotal       int64     `json:"apiCallsTotal"`
	APICallsSuccessful  int64     `json:"apiCallsSuccessful"`
	LastUpdateTime      time.Time `json:"lastUpdateTime"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		lastUpdateTime: time.Now(),
	}
}

func (m *Metrics) update(fn func()) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementInterviewsStarted() {
	m.update(func() { m.interviewsStarted++ })
}

func (m *Metrics) IncrementInterviewsCompleted() {
	m.update(func() { m.interviewsCompleted++ })
}

func (m *Metrics) AddQuestionsGenerated(n int) {
	m.update(func() { m.questionsGenerated += int64(n) })
}

func (m *Metrics) IncrementAnswersRecorded() {
	m.update(func() { m.answersRecorded++ })
}

func (m *Metrics) IncrementEvaluationsFailed() {
	m.update(func() { m.evaluationsFailed++ })
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.update(func() {
		m.apiCallsTotal++
		if success {
			m.apiCallsSuccessful++
		}
	})
}

func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		InterviewsStarted:   m.interviewsStarted,
		InterviewsCompleted: m.interviewsCompleted,
		QuestionsGenerated:  m.questionsGenerated,
		AnswersRecorded:     m.answersRecorded,
		EvaluationsFailed:   m.evaluationsFailed,
		APICallsTotal:       m.apiCallsTotal,
		APICallsSuccessful:  m.apiCallsSuccessful,
		LastUpdateTime:      m.lastUpdateTime,
	}
}
