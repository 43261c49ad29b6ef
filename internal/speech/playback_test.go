package speech

import "testing"

type fakeSynth struct {
	calls []string
}

func (f *fakeSynth) Speak(text, lang string, volume float64) error {
	f.calls = append(f.calls, "speak:"+text+":"+lang)
	return nil
}

func (f *fakeSynth) Cancel() error {
	f.calls = append(f.calls, "cancel")
	return nil
}

func TestPlayback_CancelsBeforeSpeaking(t *testing.T) {
	synth := &fakeSynth{}
	p := NewPlayback(synth)
	_ = p.Speak("one", "en-US", 0.8)
	_ = p.Speak("two", "en-US", 0.8)

	want := []string{"cancel", "speak:one:en-US", "cancel", "speak:two:en-US"}
	if len(synth.calls) != len(want) {
		t.Fatalf("calls: %v", synth.calls)
	}
	for i := range want {
		if synth.calls[i] != want[i] {
			t.Fatalf("call %d: got %q want %q", i, synth.calls[i], want[i])
		}
	}
	if p.Current() != "two" {
		t.Fatalf("last write should win, got %q", p.Current())
	}
}

func TestPlayback_WithoutSynthesizerIsNoop(t *testing.T) {
	p := NewPlayback(nil)
	if p.Available() {
		t.Fatalf("expected unavailable playback")
	}
	if err := p.Speak("hi", "en-US", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Cancel(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
