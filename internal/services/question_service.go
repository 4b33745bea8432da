package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/prepwise/airecruiter/internal/models"
	"github.com/prepwise/airecruiter/internal/providers/workflow"
	"github.com/prepwise/airecruiter/internal/utils"
)

type QuestionService interface {
	GenerateFromResume(ctx context.Context, resumeURL string) ([]models.QuestionAnswer, error)
	GenerateFromJob(ctx context.Context, jobTitle, jobDescription string) ([]models.QuestionAnswer, error)
}

type questionWorkflow interface {
	Generate(ctx context.Context, req workflow.GenerateRequest) (json.RawMessage, error)
}

type questionService struct {
	wf  questionWorkflow
	log *logrus.Logger
}

func NewQuestionService(wf questionWorkflow, log *logrus.Logger) QuestionService {
	return &questionService{wf: wf, log: log}
}

func (s *questionService) GenerateFromResume(ctx context.Context, resumeURL string) ([]models.QuestionAnswer, error) {
	const op = "QuestionService.GenerateFromResume"

	if resumeURL == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume url is required", nil)
	}

	raw, err := s.wf.Generate(ctx, workflow.GenerateRequest{ResumeURL: &resumeURL})
	if err != nil {
		return nil, err
	}
	return s.normalize(op, raw)
}

func (s *questionService) GenerateFromJob(ctx context.Context, jobTitle, jobDescription string) ([]models.QuestionAnswer, error) {
	const op = "QuestionService.GenerateFromJob"

	if jobTitle == "" && jobDescription == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job title or description is required", nil)
	}

	raw, err := s.wf.Generate(ctx, workflow.GenerateRequest{
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
	})
	if err != nil {
		return nil, err
	}
	return s.normalize(op, raw)
}

func (s *questionService) normalize(op string, raw json.RawMessage) ([]models.QuestionAnswer, error) {
	questions := NormalizeQuestions(raw)
	if len(questions) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no valid questions found in workflow response", nil)
	}
	s.log.WithFields(logrus.Fields{"count": len(questions)}).Info("normalized interview questions")
	return questions, nil
}

// NormalizeQuestions turns the workflow's unfixed payload shape into a uniform
// question list. Three tiers, in order:
//  1. payload is already a JSON array of entries
//  2. payload is an object carrying text (content.parts[0].text or text, or a
//     bare JSON string) that itself JSON-decodes into entries
//  3. the carried text is not JSON at all: each non-empty line becomes one
//     question with a generated placeholder answer
//
// Entries that are not objects are dropped; recognizable entries with missing
// fields get placeholders instead of being discarded.
func NormalizeQuestions(raw json.RawMessage) []models.QuestionAnswer {
	entries, text, ok := decodePayload(raw)
	if !ok {
		return nil
	}

	if entries == nil && text != "" {
		entries = decodeQuestionText(text)
	}

	out := make([]models.QuestionAnswer, 0, len(entries))
	for _, e := range entries {
		obj, isObj := e.(map[string]any)
		if !isObj {
			continue
		}
		n := len(out) + 1
		qa := models.QuestionAnswer{
			Question: stringField(obj, "question"),
			Answer:   stringField(obj, "answer"),
		}
		if qa.Question == "" {
			qa.Question = fmt.Sprintf("Question %d", n)
		}
		if qa.Answer == "" {
			qa.Answer = fmt.Sprintf("Answer for question %d", n)
		}
		out = append(out, qa)
	}
	return out
}

// decodePayload classifies the raw payload: a direct entry array, or a
// text-bearing shape whose text still needs decoding.
func decodePayload(raw json.RawMessage) (entries []any, text string, ok bool) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// not JSON at all: treat the body as plain text
		return nil, string(raw), true
	}

	switch v := payload.(type) {
	case []any:
		return v, "", true
	case string:
		return nil, v, true
	case map[string]any:
		if t := nestedText(v); t != "" {
			return nil, t, true
		}
		return nil, "", false
	default:
		return nil, "", false
	}
}

// nestedText pulls the known text-bearing fields: content.parts[0].text, then
// a top-level text property.
func nestedText(obj map[string]any) string {
	if content, ok := obj["content"].(map[string]any); ok {
		if parts, ok := content["parts"].([]any); ok && len(parts) > 0 {
			if part, ok := parts[0].(map[string]any); ok {
				if t, ok := part["text"].(string); ok && t != "" {
					return t
				}
			}
		}
	}
	if t, ok := obj["text"].(string); ok && t != "" {
		return t
	}
	return ""
}

// decodeQuestionText JSON-decodes the carried text; when that fails, it falls
// back to one question per non-empty line.
func decodeQuestionText(text string) []any {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return splitLines(text)
	}

	switch v := parsed.(type) {
	case []any:
		return v
	case map[string]any:
		if qs, ok := v["questions"].([]any); ok {
			return qs
		}
		if c, ok := v["content"].([]any); ok {
			return c
		}
		// single object: wrap it
		return []any{v}
	default:
		return splitLines(text)
	}
}

func splitLines(text string) []any {
	var out []any
	n := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n++
		out = append(out, map[string]any{
			"question": line,
			"answer":   fmt.Sprintf("This is a generated answer for question %d", n),
		})
	}
	return out
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
