package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prepwise/airecruiter/internal/ratelimit"
	"github.com/prepwise/airecruiter/internal/services"
	"github.com/prepwise/airecruiter/internal/utils"
)

// 5 MB hard ceiling; PDF and Word documents only.
const maxResumeSize = 5 << 20

var allowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Each generation request spends 5 tokens of the caller's bucket.
const generateCost = 5

type GenerateHandler struct {
	limiter   ratelimit.Limiter
	questions services.QuestionService
	resumes   services.ResumeFileService
	log       *logrus.Logger
}

func NewGenerateHandler(limiter ratelimit.Limiter, questions services.QuestionService, resumes services.ResumeFileService, log *logrus.Logger) *GenerateHandler {
	return &GenerateHandler{limiter: limiter, questions: questions, resumes: resumes, log: log}
}

// Generate is the question-generation gateway: multipart body with either a
// resume file or jobTitle/jobDescription fields. The file path wins when both
// are present. No session is created here; the client does that on success.
func (h *GenerateHandler) Generate(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	allowed, err := h.limiter.Allow(c.Request.Context(), id.RateLimitKey(), generateCost)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "GenerateHandler.Generate", "rate limiter unavailable", err))
		return
	}
	if !allowed {
		// structured 429 body so the UI can show "try again later"
		c.JSON(http.StatusTooManyRequests, gin.H{
			"status": http.StatusTooManyRequests,
			"result": "no free credits try again after 24 hours",
		})
		return
	}

	jobTitle := c.PostForm("jobTitle")
	jobDescription := c.PostForm("jobDescription")

	fh, ferr := c.FormFile("file")
	if ferr != nil {
		h.generateFromJob(c, jobTitle, jobDescription)
		return
	}

	// validate before any network call; both violations are terminal
	declared := fh.Header.Get("Content-Type")
	if !allowedResumeTypes[declared] {
		writeError(c, utils.E(utils.CodeInvalidArgument, "GenerateHandler.Generate",
			"Invalid file type. Please upload PDF or Word documents.", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > maxResumeSize {
		writeError(c, utils.E(utils.CodeInvalidArgument, "GenerateHandler.Generate",
			"File size too large. Maximum size is 5MB.", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "GenerateHandler.Generate", "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff the first bytes; a file declared as PDF must actually be one
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	if declared == "application/pdf" && http.DetectContentType(head) != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "GenerateHandler.Generate",
			"Invalid file type. Please upload PDF or Word documents.", nil))
		return
	}

	reader := io.MultiReader(bytes.NewReader(head), file)
	objectName := fmt.Sprintf("resume-uploads/%s/%d-%s", id.UserID, time.Now().UnixMilli(), sanitizeFileName(fh.Filename))

	row, upload, err := h.resumes.Upload(c.Request.Context(), id.UserID, fh.Filename, int(fh.Size), declared, objectName, reader)
	if err != nil {
		writeError(c, err)
		return
	}

	questions, err := h.questions.GenerateFromResume(c.Request.Context(), upload.URL)
	if err != nil {
		writeError(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"user_id":   id.UserID,
		"file_id":   row.ID,
		"questions": len(questions),
	}).Info("generated questions from resume")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"uploadInfo": gin.H{
			"url":    upload.URL,
			"fileId": upload.FileID,
		},
		"questions": questions,
		"count":     len(questions),
	})
}

func (h *GenerateHandler) generateFromJob(c *gin.Context, jobTitle, jobDescription string) {
	questions, err := h.questions.GenerateFromJob(c.Request.Context(), jobTitle, jobDescription)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"questions":      questions,
		"count":          len(questions),
		"resumeUrl":      nil,
		"jobTitle":       jobTitle,
		"jobDescription": jobDescription,
	})
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, "\\", "_")
}
