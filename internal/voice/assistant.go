package voice

import (
	"fmt"
	"strings"

	"github.com/prepwise/airecruiter/internal/models"
)

const assistantName = "Al'Recruiter"

// AssistantConfig is the payload the browser hands to the voice-agent SDK:
// persona, scripted first utterance, transcription and voice engine choices,
// and the system prompt that drives the interviewing model.
type AssistantConfig struct {
	Name         string            `json:"name"`
	FirstMessage string            `json:"firstMessage"`
	Transcriber  TranscriberConfig `json:"transcriber"`
	Voice        VoiceConfig       `json:"voice"`
	Model        ModelConfig       `json:"model"`
}

type TranscriberConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

type VoiceConfig struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

type ModelConfig struct {
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Messages []ModelMessage `json:"messages"`
}

type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildAssistantConfig shapes the session data into the agent configuration.
// The prompt embeds every question so the agent asks them one at a time.
func BuildAssistantConfig(candidateName string, session *models.InterviewSession) AssistantConfig {
	if candidateName == "" {
		candidateName = "Candidate"
	}

	jobTitle := session.JobTitle
	if jobTitle == "" {
		jobTitle = "N/A"
	}
	jobDescription := session.JobDescription
	if jobDescription == "" {
		jobDescription = "No description provided"
	}

	var questions []string
	for _, q := range session.InterviewQuestions {
		if q.WellFormed() {
			questions = append(questions, q.Question)
		}
	}
	questionList := strings.Join(questions, "\n")

	firstMessage := fmt.Sprintf(
		"Hi %s! I'm %s, your AI interviewer for the %s position. I'll be asking you %d questions to assess your skills and experience. Are you ready to begin?",
		candidateName, assistantName, jobTitle, len(questions))

	systemPrompt := fmt.Sprintf(`You are an AI voice assistant conducting interviews for %s.
Your job is to ask candidates provided interview questions and assess their responses.

BEGIN WITH THIS EXACT INTRODUCTION:
"%s"

INTERVIEW QUESTIONS TO ASK (one at a time):
%s

GUIDELINES:
- Ask one question at a time
- Wait for complete responses before proceeding
- Provide brief, encouraging feedback
- Be professional but friendly
- If they struggle, offer to rephrase the question
- After all questions, provide a brief summary
- Keep the conversation natural and engaging

END WITH: "Thank you for completing this interview! Your responses have been recorded and will be reviewed by our team. We'll be in touch soon."

Stay focused on the role: %s
Job description: %s`, jobTitle, firstMessage, questionList, jobTitle, jobDescription)

	return AssistantConfig{
		Name:         assistantName,
		FirstMessage: firstMessage,
		Transcriber: TranscriberConfig{
			Provider: "deepgram",
			Model:    "nova-2",
			Language: "en-US",
		},
		Voice: VoiceConfig{
			Provider: "playht",
			VoiceID:  "jennifer",
		},
		Model: ModelConfig{
			Provider: "openai",
			Model:    "gpt-4",
			Messages: []ModelMessage{
				{Role: "system", Content: systemPrompt},
			},
		},
	}
}
