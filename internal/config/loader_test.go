package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
interview_config:
  question_count: 5
  pass_threshold: 75
  min_introduction_length: 10
  no_answer_text: "No answer provided."
  default_language: en-US
languages:
  - code: en-US
    name: English
  - code: rw-RW
    name: Kinyarwanda
purposes: ["Job Interview"]
decisions:
  pass: "pass"
  fail: "fail"
messages:
  en-US:
    unsupported_browser: "unsupported"
`

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GetQuestionCount() != 5 || cfg.GetPassThreshold() != 75 {
		t.Fatalf("unexpected interview config: %+v", cfg.InterviewConfig)
	}
	if cfg.LanguageName("rw-RW") != "Kinyarwanda" {
		t.Fatalf("expected Kinyarwanda, got %q", cfg.LanguageName("rw-RW"))
	}
	if cfg.LanguageName("fr-FR") != "fr-FR" {
		t.Fatalf("unknown language should fall back to its code")
	}
	// rw-RW has no messages and falls back to the default language
	if cfg.MessagesFor("rw-RW").UnsupportedBrowser != "unsupported" {
		t.Fatalf("expected fallback messages")
	}
	if cfg.Decision(75) != "pass" || cfg.Decision(74) != "fail" {
		t.Fatalf("decision threshold mismatch")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		replace [2]string
	}{
		{"zero_questions", [2]string{"question_count: 5", "question_count: 0"}},
		{"threshold_out_of_range", [2]string{"pass_threshold: 75", "pass_threshold: 120"}},
		{"empty_sentinel", [2]string{`no_answer_text: "No answer provided."`, `no_answer_text: ""`}},
		{"unknown_default_language", [2]string{"default_language: en-US", "default_language: de-DE"}},
		{"missing_decision", [2]string{`pass: "pass"`, `pass: ""`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := strings.Replace(validYAML, tc.replace[0], tc.replace[1], 1)
			if _, err := Parse([]byte(data)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadAppConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("SERVER_WRITE_TIMEOUT", "bogus")
	cfg := LoadAppConfig()
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.OpenAI.Model == "" {
		t.Fatalf("expected default model")
	}
	if cfg.Server.WriteTimeout <= 0 {
		t.Fatalf("invalid duration should fall back to default")
	}
}

func TestOpenAIConfig_Validate(t *testing.T) {
	c := OpenAIConfig{APIKey: "", MaxTokens: 10, Temperature: 0.5}
	if err := c.ValidateConfig(); err == nil {
		t.Fatalf("expected error for missing key")
	}
	c.APIKey = "k"
	c.Temperature = 3
	if err := c.ValidateConfig(); err == nil {
		t.Fatalf("expected error for temperature")
	}
	c.Temperature = 0.5
	if err := c.ValidateConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
