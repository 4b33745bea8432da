package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepwise/airecruiter/internal/services"
	"github.com/prepwise/airecruiter/internal/utils"
)

type FeedbackHandler struct {
	interviews services.InterviewService
	evaluation services.EvaluationService
}

func NewFeedbackHandler(interviews services.InterviewService, evaluation services.EvaluationService) *FeedbackHandler {
	return &FeedbackHandler{interviews: interviews, evaluation: evaluation}
}

// Get evaluates a completed interview and returns the report. Evaluation is
// best-effort: a failed model call still yields a neutral fallback report,
// so this endpoint only errors on auth, lookup or ownership problems.
func (h *FeedbackHandler) Get(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	session, err := h.interviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if session.UserID != id.UserID {
		writeError(c, utils.E(utils.CodeForbidden, "FeedbackHandler.Get", "you do not have access to this interview", nil))
		return
	}

	report := h.evaluation.Evaluate(c.Request.Context(), session)
	c.JSON(http.StatusOK, gin.H{"success": true, "feedback": report})
}
