package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepwise/airecruiter/internal/models"
	"github.com/prepwise/airecruiter/internal/services"
	"github.com/prepwise/airecruiter/internal/utils"
	"github.com/prepwise/airecruiter/internal/voice"
)

type InterviewHandler struct {
	interviews services.InterviewService
}

func NewInterviewHandler(interviews services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

type createInterviewRequest struct {
	Questions      []models.QuestionAnswer `json:"questions"`
	ResumeURL      string                  `json:"resumeUrl"`
	JobTitle       string                  `json:"jobTitle"`
	JobDescription string                  `json:"jobDescription"`
}

func (h *InterviewHandler) Create(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req createInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Create", "invalid request body", err))
		return
	}

	session, err := h.interviews.Create(c.Request.Context(), id.UserID, req.Questions, req.ResumeURL, req.JobTitle, req.JobDescription)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "session": session})
}

func (h *InterviewHandler) Get(c *gin.Context) {
	_, session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// AssistantConfig returns the voice-agent payload for a session: persona,
// transcriber, voice engine and the system prompt carrying the questions.
func (h *InterviewHandler) AssistantConfig(c *gin.Context) {
	id, session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	cfg := voice.BuildAssistantConfig(id.Name, session)
	c.JSON(http.StatusOK, gin.H{"success": true, "assistant": cfg})
}

type saveTranscriptRequest struct {
	Transcript      []models.TranscriptEntry `json:"transcript"`
	DurationSeconds int64                    `json:"durationSeconds"`
}

func (h *InterviewHandler) SaveTranscript(c *gin.Context) {
	_, session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req saveTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SaveTranscript", "invalid request body", err))
		return
	}

	if err := h.interviews.SaveTranscript(c.Request.Context(), session.SessionID, req.Transcript, req.DurationSeconds); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ownedSession loads the :id session and rejects callers who don't own it.
func (h *InterviewHandler) ownedSession(c *gin.Context) (identity, *models.InterviewSession, bool) {
	id, ok := requireIdentity(c)
	if !ok {
		return identity{}, nil, false
	}

	session, err := h.interviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return identity{}, nil, false
	}
	if session.UserID != id.UserID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler", "you do not have access to this interview", nil))
		return identity{}, nil, false
	}
	return id, session, true
}
