package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/airecruiter/internal/models"
)

func assistantSession() *models.InterviewSession {
	return &models.InterviewSession{
		SessionID:      "s-1",
		JobTitle:       "Backend Engineer",
		JobDescription: "Designs and runs Go services",
		InterviewQuestions: []models.QuestionAnswer{
			{Question: "What is a goroutine?", Answer: "A lightweight thread"},
			{Question: "Explain channels", Answer: "Typed conduits"},
			{Question: "  ", Answer: "malformed, must be skipped"},
		},
	}
}

func TestBuildAssistantConfig_EmbedsQuestionsAndCandidate(t *testing.T) {
	cfg := BuildAssistantConfig("Ada", assistantSession())

	assert.Equal(t, "Al'Recruiter", cfg.Name)
	assert.Contains(t, cfg.FirstMessage, "Hi Ada!")
	assert.Contains(t, cfg.FirstMessage, "Backend Engineer")
	assert.Contains(t, cfg.FirstMessage, "2 questions")

	require.Len(t, cfg.Model.Messages, 1)
	prompt := cfg.Model.Messages[0].Content
	assert.Equal(t, "system", cfg.Model.Messages[0].Role)
	assert.Contains(t, prompt, "What is a goroutine?")
	assert.Contains(t, prompt, "Explain channels")
	assert.Contains(t, prompt, "Designs and runs Go services")
	assert.NotContains(t, prompt, "malformed")
}

func TestBuildAssistantConfig_EngineSelections(t *testing.T) {
	cfg := BuildAssistantConfig("Ada", assistantSession())

	assert.Equal(t, TranscriberConfig{Provider: "deepgram", Model: "nova-2", Language: "en-US"}, cfg.Transcriber)
	assert.Equal(t, VoiceConfig{Provider: "playht", VoiceID: "jennifer"}, cfg.Voice)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4", cfg.Model.Model)
}

func TestBuildAssistantConfig_Defaults(t *testing.T) {
	s := &models.InterviewSession{
		InterviewQuestions: []models.QuestionAnswer{{Question: "Q1", Answer: "A1"}},
	}
	cfg := BuildAssistantConfig("", s)

	assert.Contains(t, cfg.FirstMessage, "Hi Candidate!")
	assert.Contains(t, cfg.FirstMessage, "N/A")
	assert.Contains(t, cfg.Model.Messages[0].Content, "No description provided")
}
