package interview

import (
	"errors"
	"testing"
)

func testQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: i + 1, Text: "question " + string(rune('A'+i))}
	}
	return qs
}

func TestLedger_UpsertKeepsOneEntryPerQuestion(t *testing.T) {
	l := NewLedger(testQuestions(3), "")
	writes := []struct {
		id   int
		text string
	}{
		{2, "first"}, {1, "one"}, {2, "second"}, {3, "three"}, {2, "third"}, {1, "uno"},
	}
	for _, w := range writes {
		if err := l.Upsert(w.id, "q", w.text); err != nil {
			t.Fatalf("upsert %d: %v", w.id, err)
		}
	}

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// insertion order of first occurrence
	wantOrder := []int{2, 1, 3}
	wantText := map[int]string{1: "uno", 2: "third", 3: "three"}
	for i, e := range entries {
		if e.QuestionID != wantOrder[i] {
			t.Fatalf("entry %d: got id %d want %d", i, e.QuestionID, wantOrder[i])
		}
		if e.AnswerText != wantText[e.QuestionID] {
			t.Fatalf("id %d: got %q want %q", e.QuestionID, e.AnswerText, wantText[e.QuestionID])
		}
	}
}

func TestLedger_UpsertPreservesReviewFlagUnlessGiven(t *testing.T) {
	l := NewLedger(testQuestions(2), "")
	if err := l.UpsertWithReview(1, "q", "a", true); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := l.Upsert(1, "q", "b"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ := l.Get(1)
	if !got.MarkedForReview || got.AnswerText != "b" {
		t.Fatalf("flag should be preserved, got %+v", got)
	}
	if err := l.UpsertWithReview(1, "q", "c", false); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = l.Get(1)
	if got.MarkedForReview {
		t.Fatalf("explicit flag should overwrite, got %+v", got)
	}
}

func TestLedger_UpsertUnknownQuestion(t *testing.T) {
	l := NewLedger(testQuestions(1), "")
	err := l.Upsert(42, "q", "a")
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("ledger must stay empty")
	}
}

func TestLedger_ToggleReviewTwiceIsIdempotent(t *testing.T) {
	l := NewLedger(testQuestions(2), "")
	_ = l.Upsert(1, "q", "a")

	first, err := l.ToggleReview(1)
	if err != nil || !first {
		t.Fatalf("first toggle: %v %v", first, err)
	}
	second, err := l.ToggleReview(1)
	if err != nil || second {
		t.Fatalf("second toggle: %v %v", second, err)
	}
	got, _ := l.Get(1)
	if got.MarkedForReview || got.AnswerText != "a" {
		t.Fatalf("expected original state, got %+v", got)
	}
}

func TestLedger_ToggleReviewBeforeAnswerCreatesEntry(t *testing.T) {
	qs := testQuestions(2)
	l := NewLedger(qs, "")
	marked, err := l.ToggleReview(2)
	if err != nil || !marked {
		t.Fatalf("toggle: %v %v", marked, err)
	}
	got, ok := l.Get(2)
	if !ok {
		t.Fatalf("expected entry to be created")
	}
	if got.AnswerText != "" || got.QuestionText != qs[1].Text || !got.MarkedForReview {
		t.Fatalf("unexpected entry %+v", got)
	}
	// later capture keeps the flag
	_ = l.Upsert(2, qs[1].Text, "spoken")
	got, _ = l.Get(2)
	if !got.MarkedForReview {
		t.Fatalf("flag lost after upsert")
	}
	if _, err := l.ToggleReview(99); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestLedger_FinalizeCoversEveryQuestionInOrder(t *testing.T) {
	qs := testQuestions(4)
	l := NewLedger(qs, "nothing said")
	_ = l.Upsert(3, qs[2].Text, "third answer")
	_ = l.Upsert(1, qs[0].Text, "first answer")
	_, _ = l.ToggleReview(4)

	final := l.Finalize()
	if len(final) != len(qs) {
		t.Fatalf("expected %d answers, got %d", len(qs), len(final))
	}
	want := []string{"first answer", "nothing said", "third answer", "nothing said"}
	for i, a := range final {
		if a.QuestionID != qs[i].ID || a.QuestionText != qs[i].Text {
			t.Fatalf("answer %d out of order: %+v", i, a)
		}
		if a.AnswerText != want[i] {
			t.Fatalf("answer %d: got %q want %q", i, a.AnswerText, want[i])
		}
	}
	if !final[3].MarkedForReview {
		t.Fatalf("review flag should survive finalize")
	}
	// finalize does not mutate the ledger
	if l.Len() != 3 {
		t.Fatalf("ledger mutated by finalize: %d entries", l.Len())
	}
	if again := l.Finalize(); len(again) != len(final) || again[1].AnswerText != final[1].AnswerText {
		t.Fatalf("finalize should be idempotent")
	}
}

func TestApplicantInfo_Validate(t *testing.T) {
	ok := ApplicantInfo{FullName: "Jane Doe", CompanyName: "Acme", Position: "Engineer"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := ApplicantInfo{FullName: "  ", CompanyName: "Acme"}
	err := bad.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 || verr.Fields[0] != "fullName" || verr.Fields[1] != "position" {
		t.Fatalf("unexpected fields %v", verr.Fields)
	}
}
