package config

// Config представляет конфигурацию интервью
type Config struct {
	InterviewConfig InterviewConfig     `yaml:"interview_config"`
	Languages       []Language          `yaml:"languages"`
	Purposes        []string            `yaml:"purposes"`
	Decisions       Decisions           `yaml:"decisions"`
	Messages        map[string]Messages `yaml:"messages"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	QuestionCount         int    `yaml:"question_count"`
	PassThreshold         int    `yaml:"pass_threshold"`
	MinIntroductionLength int    `yaml:"min_introduction_length"`
	NoAnswerText          string `yaml:"no_answer_text"`
	DefaultLanguage       string `yaml:"default_language"`
}

// Language описывает язык интервью: BCP-47 тег и название для промптов
type Language struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Decisions два фиксированных решения по итогам оценки
type Decisions struct {
	Pass string `yaml:"pass"`
	Fail string `yaml:"fail"`
}

// Messages тексты, которые видит кандидат
type Messages struct {
	IntroductionGreeting     string `yaml:"introduction_greeting"`
	UnsupportedBrowser       string `yaml:"unsupported_browser"`
	ErrorOccurred            string `yaml:"error_occurred"`
	CheckMicPermissions      string `yaml:"check_mic_permissions"`
	ErrorGeneratingQuestions string `yaml:"error_generating_questions"`
	ErrorEvaluating          string `yaml:"error_evaluating"`
	MissingFields            string `yaml:"missing_fields"`
	IntroductionTooShort     string `yaml:"introduction_too_short"`
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetQuestionCount() int {
	return c.InterviewConfig.QuestionCount
}

func (c *Config) GetPassThreshold() int {
	return c.InterviewConfig.PassThreshold
}

func (c *Config) GetMinIntroductionLength() int {
	return c.InterviewConfig.MinIntroductionLength
}

func (c *Config) GetNoAnswerText() string {
	return c.InterviewConfig.NoAnswerText
}

func (c *Config) GetDefaultLanguage() string {
	return c.InterviewConfig.DefaultLanguage
}

// LanguageName возвращает название языка по коду, для неизвестного кода - сам код
func (c *Config) LanguageName(code string) string {
	for _, lang := range c.Languages {
		if lang.Code == code {
			return lang.Name
		}
	}
	return code
}

// IsSupportedLanguage проверяет, что язык есть в каталоге
func (c *Config) IsSupportedLanguage(code string) bool {
	for _, lang := range c.Languages {
		if lang.Code == code {
			return true
		}
	}
	return false
}

// IsSupportedPurpose проверяет цель интервью
func (c *Config) IsSupportedPurpose(purpose string) bool {
	for _, p := range c.Purposes {
		if p == purpose {
			return true
		}
	}
	return false
}

// MessagesFor возвращает тексты для языка, при отсутствии перевода - для языка по умолчанию
func (c *Config) MessagesFor(code string) Messages {
	if msgs, ok := c.Messages[code]; ok {
		return msgs
	}
	return c.Messages[c.GetDefaultLanguage()]
}

// Decision выбирает решение по баллу
func (c *Config) Decision(score int) string {
	if score >= c.GetPassThreshold() {
		return c.Decisions.Pass
	}
	return c.Decisions.Fail
}
