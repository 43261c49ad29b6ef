package interview

import (
	"fmt"
	"strings"
)

// ApplicantInfo данные кандидата из формы
type ApplicantInfo struct {
	FullName       string `json:"fullName"`
	CompanyName    string `json:"companyName"`
	Position       string `json:"position"`
	CompanyWebsite string `json:"companyWebsite"`
	Purpose        string `json:"purpose"`
	Language       string `json:"language"`
}

// ValidationError ошибка заполнения формы. До удаленного сервиса не доходит
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Normalize убирает пробелы по краям всех полей
func (a ApplicantInfo) Normalize() ApplicantInfo {
	return ApplicantInfo{
		FullName:       strings.TrimSpace(a.FullName),
		CompanyName:    strings.TrimSpace(a.CompanyName),
		Position:       strings.TrimSpace(a.Position),
		CompanyWebsite: strings.TrimSpace(a.CompanyWebsite),
		Purpose:        strings.TrimSpace(a.Purpose),
		Language:       strings.TrimSpace(a.Language),
	}
}

// Validate проверяет обязательные поля: имя, компания, должность
func (a ApplicantInfo) Validate() error {
	var missing []string
	if strings.TrimSpace(a.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(a.CompanyName) == "" {
		missing = append(missing, "companyName")
	}
	if strings.TrimSpace(a.Position) == "" {
		missing = append(missing, "position")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
