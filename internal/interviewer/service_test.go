package interviewer

import (
	"context"
	"errors"
	"testing"

	"voice-interview/internal/api"
	"voice-interview/internal/config"
	"voice-interview/internal/interview"
	"voice-interview/internal/metrics"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []api.Message
	jsonMode bool
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []api.Message, jsonMode bool) (string, error) {
	f.messages = messages
	f.jsonMode = jsonMode
	return f.reply, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		InterviewConfig: config.InterviewConfig{
			QuestionCount:   5,
			PassThreshold:   75,
			NoAnswerText:    "No answer provided.",
			DefaultLanguage: "en-US",
		},
		Languages: []config.Language{{Code: "en-US", Name: "English"}},
		Purposes:  []string{"Job Interview"},
		Decisions: config.Decisions{Pass: "pass", Fail: "fail"},
	}
}

var jane = interview.ApplicantInfo{
	FullName:    "Jane Doe",
	CompanyName: "Acme",
	Position:    "Engineer",
	Purpose:     "Job Interview",
	Language:    "en-US",
}

func TestGenerateQuestions(t *testing.T) {
	fc := &fakeCompleter{reply: `{"questions":[{"id":1,"question":"Q1"},{"id":2,"question":"Q2"}]}`}
	m := metrics.NewMetrics()
	svc := New(fc, testConfig(), m)

	qs, err := svc.GenerateQuestions(context.Background(), jane)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 2 || qs[1].Text != "Q2" {
		t.Fatalf("unexpected questions %+v", qs)
	}
	if !fc.jsonMode || len(fc.messages) != 2 || fc.messages[0].Role != "system" {
		t.Fatalf("unexpected request %+v", fc.messages)
	}
	s := m.GetSnapshot()
	if s.QuestionsGenerated != 2 || s.APICallsSuccessful != 1 {
		t.Fatalf("unexpected metrics %+v", s)
	}
}

func TestGenerateQuestions_Errors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"transport", "", errors.New("boom")},
		{"empty reply", "  ", nil},
		{"malformed", "not json", nil},
		{"no questions", `{"questions":[]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&fakeCompleter{reply: tt.reply, err: tt.err}, testConfig(), nil)
			_, err := svc.GenerateQuestions(context.Background(), jane)
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
		})
	}
}

func TestEvaluateAnswers_RecomputesDecision(t *testing.T) {
	tests := []struct {
		reply    string
		score    int
		decision string
	}{
		{`{"overallScore":82,"decision":"fail","strengths":["clear"],"weaknesses":[],"recommendations":[]}`, 82, "pass"},
		{`{"overallScore":74.6,"decision":"whatever"}`, 75, "pass"},
		{`{"overallScore":40,"decision":"pass"}`, 40, "fail"},
		{`{"overallScore":140}`, 100, "pass"},
		{`{"overallScore":-3}`, 0, "fail"},
	}
	for _, tt := range tests {
		svc := New(&fakeCompleter{reply: tt.reply}, testConfig(), nil)
		ev, err := svc.EvaluateAnswers(context.Background(), jane, nil, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.OverallScore != tt.score || ev.Decision != tt.decision {
			t.Fatalf("reply %s: got %d %q", tt.reply, ev.OverallScore, ev.Decision)
		}
	}
}

func TestEvaluateAnswers_Errors(t *testing.T) {
	for _, reply := range []string{"", "{}", "[1,2]"} {
		svc := New(&fakeCompleter{reply: reply}, testConfig(), nil)
		_, err := svc.EvaluateAnswers(context.Background(), jane, nil, "")
		var evErr *EvaluationError
		if !errors.As(err, &evErr) {
			t.Fatalf("reply %q: expected EvaluationError, got %v", reply, err)
		}
	}
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		ids     []int
		wantErr bool
	}{
		{"wrapper", `{"questions":[{"id":3,"question":"a"},{"id":7,"question":"b"}]}`, []int{3, 7}, false},
		{"bare array", `[{"id":1,"question":"a"}]`, []int{1}, false},
		{"duplicate ids renumbered", `[{"id":1,"question":"a"},{"id":1,"question":"b"}]`, []int{1, 2}, false},
		{"zero ids renumbered", `[{"question":"a"},{"question":"b"}]`, []int{1, 2}, false},
		{"blank dropped", `[{"id":1,"question":"a"},{"id":2,"question":"  "}]`, []int{1}, false},
		{"all blank", `[{"id":1,"question":""}]`, nil, true},
		{"garbage", `questions`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := ParseQuestions(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(qs) != len(tt.ids) {
				t.Fatalf("got %d questions, want %d", len(qs), len(tt.ids))
			}
			for i, id := range tt.ids {
				if qs[i].ID != id {
					t.Fatalf("question %d: id %d, want %d", i, qs[i].ID, id)
				}
			}
		})
	}
}
