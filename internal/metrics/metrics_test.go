package metrics

import (
	"sync"
	"testing"
)

func TestMetrics_ConcurrentIncrements(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(ok bool) {
			defer wg.Done()
			m.IncrementAPICall(ok)
			m.IncrementAnswersRecorded()
		}(i%2 == 0)
	}
	wg.Wait()
	m.AddQuestionsGenerated(5)

	s := m.GetSnapshot()
	if s.APICallsTotal != 50 || s.APICallsSuccessful != 25 {
		t.Fatalf("unexpected api calls %+v", s)
	}
	if s.AnswersRecorded != 50 || s.QuestionsGenerated != 5 {
		t.Fatalf("unexpected counters %+v", s)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.IncrementInterviewsStarted()
	if s := m.GetSnapshot(); s.InterviewsStarted != 0 {
		t.Fatalf("nil metrics should report zeros")
	}
}
