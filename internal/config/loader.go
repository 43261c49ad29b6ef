package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	return Parse(data)
}

// Parse разбирает YAML конфигурации интервью и валидирует его
func Parse(data []byte) (*Config, error) {
	var config Config
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	ic := config.InterviewConfig

	if ic.QuestionCount <= 0 {
		return fmt.Errorf("question_count должно быть больше 0")
	}

	if ic.PassThreshold < 0 || ic.PassThreshold > 100 {
		return fmt.Errorf("pass_threshold должен быть в диапазоне 0..100, получен %d", ic.PassThreshold)
	}

	if ic.MinIntroductionLength < 0 {
		return fmt.Errorf("min_introduction_length не может быть отрицательным")
	}

	if ic.NoAnswerText == "" {
		return fmt.Errorf("no_answer_text должен быть задан")
	}

	if len(config.Languages) == 0 {
		return fmt.Errorf("нужен хотя бы один язык в languages")
	}

	for i, lang := range config.Languages {
		if lang.Code == "" || lang.Name == "" {
			return fmt.Errorf("язык %d должен иметь code и name", i)
		}
	}

	if !config.IsSupportedLanguage(ic.DefaultLanguage) {
		return fmt.Errorf("default_language %q отсутствует в languages", ic.DefaultLanguage)
	}

	if len(config.Purposes) == 0 {
		return fmt.Errorf("нужна хотя бы одна цель интервью в purposes")
	}

	if config.Decisions.Pass == "" || config.Decisions.Fail == "" {
		return fmt.Errorf("decisions.pass и decisions.fail должны быть заданы")
	}

	if _, ok := config.Messages[ic.DefaultLanguage]; !ok {
		return fmt.Errorf("нет messages для языка по умолчанию %s", ic.DefaultLanguage)
	}

	return nil
}
