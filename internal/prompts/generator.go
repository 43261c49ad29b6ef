package prompts

import (
	"fmt"
	"strings"

	"voice-interview/internal/interview"
)

// QuestionsPrompt параметры генерации вопросов
type QuestionsPrompt struct {
	Applicant    interview.ApplicantInfo
	LanguageName string
	Count        int
}

// EvaluationPrompt параметры оценки ответов
type EvaluationPrompt struct {
	Applicant     interview.ApplicantInfo
	LanguageName  string
	Answers       []interview.Answer
	Introduction  string
	PassThreshold int
	PassDecision  string
	FailDecision  string
}

// SystemPrompt роль модели для обоих запросов
const SystemPrompt = "You are an expert HR manager and technical recruiter conducting structured voice interviews. Always answer with valid JSON only, without markdown or comments."

// GenerateQuestionsPrompt строит промпт для генерации вопросов интервью
func GenerateQuestionsPrompt(p QuestionsPrompt) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Based on the following user information, generate %d relevant interview questions.\n", p.Count))
	prompt.WriteString(fmt.Sprintf("- Role: %s\n", p.Applicant.Position))
	prompt.WriteString(fmt.Sprintf("- Company: %s\n", p.Applicant.CompanyName))
	if p.Applicant.CompanyWebsite != "" {
		prompt.WriteString(fmt.Sprintf("- Company Website: %s\n", p.Applicant.CompanyWebsite))
	}
	prompt.WriteString(fmt.Sprintf("- Interview Purpose: %s\n", p.Applicant.Purpose))
	prompt.WriteString(fmt.Sprintf("- Language: %s\n\n", p.LanguageName))

	prompt.WriteString(fmt.Sprintf("The questions should be tailored to the role and company. They must be in %s.\n", p.LanguageName))
	prompt.WriteString("The questions should cover a mix of technical skills, behavioral situations, and company-specific knowledge.\n")
	prompt.WriteString("Each question will be read aloud and answered by voice, so keep every question to one or two sentences.\n\n")

	prompt.WriteString(`Return a JSON object of the form {"questions": [{"id": 1, "question": "..."}]}. `)
	prompt.WriteString("Ids are consecutive integers starting at 1.")

	return prompt.String()
}

// GenerateEvaluationPrompt строит промпт для оценки ответов
func GenerateEvaluationPrompt(p EvaluationPrompt) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Evaluate the following interview responses for the role of %s at %s.\n",
		p.Applicant.Position, p.Applicant.CompanyName))
	prompt.WriteString(fmt.Sprintf("The interview was conducted in %s.\n\n", p.LanguageName))

	prompt.WriteString("INTERVIEW CONTEXT:\n")
	prompt.WriteString(fmt.Sprintf("- Candidate: %s\n", p.Applicant.FullName))
	prompt.WriteString(fmt.Sprintf("- Role: %s\n", p.Applicant.Position))
	prompt.WriteString(fmt.Sprintf("- Company: %s\n", p.Applicant.CompanyName))
	prompt.WriteString(fmt.Sprintf("- Purpose: %s\n\n", p.Applicant.Purpose))

	if strings.TrimSpace(p.Introduction) != "" {
		prompt.WriteString("CANDIDATE'S SELF-INTRODUCTION:\n")
		prompt.WriteString(strings.TrimSpace(p.Introduction))
		prompt.WriteString("\n\n")
	}

	prompt.WriteString("CANDIDATE'S ANSWERS:\n")
	for _, a := range p.Answers {
		prompt.WriteString(fmt.Sprintf("Question %d: %s\n", a.QuestionID, a.QuestionText))
		if a.MarkedForReview {
			prompt.WriteString("(The candidate marked this answer for review.)\n")
		}
		prompt.WriteString(fmt.Sprintf("Answer: %s\n\n", a.AnswerText))
	}

	prompt.WriteString("EVALUATION CRITERIA:\n")
	prompt.WriteString("1. Relevance: how well does the answer address the question?\n")
	prompt.WriteString("2. Completeness & Depth: is the answer detailed and comprehensive?\n")
	prompt.WriteString("3. Clarity: is the language clear and easy to understand?\n")
	prompt.WriteString("4. Confidence & Professionalism (inferred from text).\n")
	prompt.WriteString(fmt.Sprintf("5. Skills Match: does the candidate demonstrate the skills required for a %s?\n\n", p.Applicant.Position))

	prompt.WriteString("TASK: return a JSON object with the fields:\n")
	prompt.WriteString("- overallScore: a single integer from 0 to 100.\n")
	prompt.WriteString(fmt.Sprintf("- decision: if the score is >= %d, exactly %q. Otherwise exactly %q.\n",
		p.PassThreshold, p.PassDecision, p.FailDecision))
	prompt.WriteString("- strengths: 2-3 key strengths.\n")
	prompt.WriteString("- weaknesses: 2-3 key weaknesses or areas for improvement.\n")
	prompt.WriteString("- recommendations: 2-3 specific, actionable recommendations.\n\n")
	prompt.WriteString(fmt.Sprintf("Strengths, weaknesses and recommendations must be written in %s.", p.LanguageName))

	return prompt.String()
}
