package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/airecruiter/internal/models"
)

type stubLimiter struct {
	allow  bool
	called int
}

func (s *stubLimiter) Allow(_ context.Context, _ string, _ float64) (bool, error) {
	s.called++
	return s.allow, nil
}

type stubQuestionService struct {
	questions []models.QuestionAnswer
	err       error
	calls     int
}

func (s *stubQuestionService) GenerateFromResume(_ context.Context, _ string) ([]models.QuestionAnswer, error) {
	s.calls++
	return s.questions, s.err
}

func (s *stubQuestionService) GenerateFromJob(_ context.Context, _, _ string) ([]models.QuestionAnswer, error) {
	s.calls++
	return s.questions, s.err
}

func testLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func generateRouter(limiter *stubLimiter, questions *stubQuestionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("user_email", "ada@example.com")
	})
	h := NewGenerateHandler(limiter, questions, nil, testLog())
	r.POST("/generate-interview-question", h.Generate)
	return r
}

func postForm(t *testing.T, r *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate-interview-question", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postFile(t *testing.T, r *gin.Engine, name, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate-interview-question", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerate_RateLimitedSkipsUpstream(t *testing.T) {
	limiter := &stubLimiter{allow: false}
	questions := &stubQuestionService{}
	r := generateRouter(limiter, questions)

	rec := postForm(t, r, map[string]string{"jobTitle": "Engineer"})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 0, questions.calls)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(429), body["status"])
	assert.Equal(t, "no free credits try again after 24 hours", body["result"])
}

func TestGenerate_JobPath(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	questions := &stubQuestionService{questions: []models.QuestionAnswer{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	}}
	r := generateRouter(limiter, questions)

	rec := postForm(t, r, map[string]string{"jobTitle": "Engineer", "jobDescription": "builds"})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "Engineer", body["jobTitle"])
	assert.Nil(t, body["resumeUrl"])
	assert.Equal(t, 1, limiter.called)
}

func TestGenerate_RejectsDisallowedFileType(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	questions := &stubQuestionService{}
	r := generateRouter(limiter, questions)

	rec := postFile(t, r, "resume.txt", "text/plain", []byte("plain text resume"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file type")
	assert.Equal(t, 0, questions.calls)
}

func TestGenerate_RejectsOversizedFile(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	questions := &stubQuestionService{}
	r := generateRouter(limiter, questions)

	big := make([]byte, maxResumeSize+1)
	rec := postFile(t, r, "resume.pdf", "application/pdf", big)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maximum size is 5MB")
	assert.Equal(t, 0, questions.calls)
}

func TestGenerate_RejectsMislabeledPDF(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	questions := &stubQuestionService{}
	r := generateRouter(limiter, questions)

	rec := postFile(t, r, "resume.pdf", "application/pdf", []byte("<html>not a pdf</html>"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, questions.calls)
}

func TestGenerate_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewGenerateHandler(&stubLimiter{allow: true}, &stubQuestionService{}, nil, testLog())
	r.POST("/generate-interview-question", h.Generate)

	rec := postForm(t, r, map[string]string{"jobTitle": "Engineer"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
