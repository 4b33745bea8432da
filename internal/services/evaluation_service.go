package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/prepwise/airecruiter/internal/models"
	"github.com/prepwise/airecruiter/internal/providers/llm"
)

// The five fixed rubric categories, each scored 0-100.
var evaluationCategories = []string{
	"Technical Knowledge",
	"Communication Skills",
	"Problem Solving",
	"Experience Relevance",
	"Confidence & Clarity",
}

type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Feedback string  `json:"feedback"`
}

type EvaluationReport struct {
	OverallScore     float64         `json:"overallScore"`
	Scores           []CategoryScore `json:"scores"`
	Strengths        []string        `json:"strengths"`
	Improvements     []string        `json:"improvements"`
	DetailedFeedback string          `json:"detailedFeedback"`
	Summary          string          `json:"summary"`
}

type EvaluationService interface {
	// Evaluate always returns a renderable report. Provider, parse, or
	// validation failures are absorbed into the fixed fallback report.
	Evaluate(ctx context.Context, session *models.InterviewSession) *EvaluationReport
}

type evaluationService struct {
	provider llm.Provider
	log      *logrus.Logger
}

func NewEvaluationService(provider llm.Provider, log *logrus.Logger) EvaluationService {
	return &evaluationService{provider: provider, log: log}
}

func (s *evaluationService) Evaluate(ctx context.Context, session *models.InterviewSession) *EvaluationReport {
	report, err := s.evaluate(ctx, session)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": session.SessionID,
			"error":      err.Error(),
		}).Error("evaluation failed, serving fallback report")
		return FallbackReport(err)
	}
	return report
}

func (s *evaluationService) evaluate(ctx context.Context, session *models.InterviewSession) (*EvaluationReport, error) {
	if s.provider == nil {
		return nil, errors.New("llm provider is not configured")
	}

	pairs := PairQuestionsWithAnswers(session.InterviewQuestions, session.Transcript)
	prompt := buildEvaluationPrompt(session.JobTitle, session.JobDescription, pairs)

	raw, err := s.provider.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate evaluation: %w", err)
	}

	return ParseEvaluationReport(raw)
}

type qaPair struct {
	Question string
	Answer   string
}

// PairQuestionsWithAnswers matches question i with the i-th chronological
// user-role transcript entry. Pairing is positional, not semantic; a candidate
// turn that is not an answer shifts everything after it. Missing answers are
// filled with a placeholder so the question count is preserved.
func PairQuestionsWithAnswers(questions []models.QuestionAnswer, transcript []models.TranscriptEntry) []qaPair {
	var userTurns []string
	for _, e := range transcript {
		if e.Role == models.RoleUser {
			userTurns = append(userTurns, e.Text)
		}
	}

	pairs := make([]qaPair, 0, len(questions))
	for i, q := range questions {
		answer := "No answer provided"
		if i < len(userTurns) {
			answer = userTurns[i]
		}
		pairs = append(pairs, qaPair{Question: q.Question, Answer: answer})
	}
	return pairs
}

func buildEvaluationPrompt(jobTitle, jobDescription string, pairs []qaPair) string {
	if jobTitle == "" {
		jobTitle = "Unknown Position"
	}
	if jobDescription == "" {
		jobDescription = "No description"
	}

	var qa strings.Builder
	for i, p := range pairs {
		fmt.Fprintf(&qa, "\nQuestion %d: %s\nCandidate's Answer: %s\n", i+1, p.Question, p.Answer)
	}

	var rubric strings.Builder
	for i, c := range evaluationCategories {
		fmt.Fprintf(&rubric, "%d. %s (0-100)\n", i+1, c)
	}

	return fmt.Sprintf(`You are an expert HR interviewer evaluating a candidate's interview performance for the position of %s.

JOB DESCRIPTION:
%s

INTERVIEW QUESTIONS AND ANSWERS:
%s

Analyze this interview thoroughly and provide a detailed evaluation in JSON format.

EVALUATION CRITERIA:
%s
Respond ONLY with valid JSON in this exact format (no markdown, no additional text):
{
  "overallScore": 85,
  "scores": [
    {"category": "Technical Knowledge", "score": 88, "maxScore": 100, "feedback": "..."},
    {"category": "Communication Skills", "score": 82, "maxScore": 100, "feedback": "..."},
    {"category": "Problem Solving", "score": 85, "maxScore": 100, "feedback": "..."},
    {"category": "Experience Relevance", "score": 80, "maxScore": 100, "feedback": "..."},
    {"category": "Confidence & Clarity", "score": 90, "maxScore": 100, "feedback": "..."}
  ],
  "strengths": ["...", "...", "..."],
  "improvements": ["...", "...", "..."],
  "detailedFeedback": "...",
  "summary": "..."
}

Be specific, honest, and constructive. Base your evaluation ONLY on the actual answers provided.`,
		jobTitle, jobDescription, qa.String(), rubric.String())
}

// ParseEvaluationReport strips an optional code fence and decodes the model
// output. A decoded report without an overall score or a scores collection is
// invalid.
func ParseEvaluationReport(raw string) (*EvaluationReport, error) {
	cleaned := stripCodeFence(raw)

	var report EvaluationReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, fmt.Errorf("parse evaluation response: %w", err)
	}

	if report.OverallScore == 0 || report.Scores == nil {
		return nil, errors.New("invalid evaluation format received from model")
	}
	return &report, nil
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

// FallbackReport is the fixed report served when evaluation fails anywhere in
// the pipeline: flat 75 across all categories, placeholder feedback.
func FallbackReport(cause error) *EvaluationReport {
	const feedback = "Unable to generate detailed feedback. Please try again or check your API key."

	scores := make([]CategoryScore, 0, len(evaluationCategories))
	for _, c := range evaluationCategories {
		scores = append(scores, CategoryScore{
			Category: c,
			Score:    75,
			MaxScore: 100,
			Feedback: feedback,
		})
	}

	detail := "Unable to generate AI evaluation."
	if cause != nil {
		detail += " Error: " + cause.Error()
	}

	return &EvaluationReport{
		OverallScore:     75,
		Scores:           scores,
		Strengths:        []string{"Interview completed successfully"},
		Improvements:     []string{"Please retry evaluation for detailed feedback"},
		DetailedFeedback: detail,
		Summary:          "Evaluation temporarily unavailable. Please retry.",
	}
}
