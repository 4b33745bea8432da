package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"time"

	"github.com/prepwise/airecruiter/internal/utils"
)

// Client calls the external question-generation workflow. The workflow owns
// the prompt; we only hand it a resume URL or a job title/description pair and
// take back whatever payload it produces.
type Client struct {
	url   string
	httpc *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpc: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// GenerateRequest carries exactly one input mode. ResumeURL is sent as
// explicit null on the text path, which is what the workflow expects.
type GenerateRequest struct {
	ResumeURL      *string `json:"resumeUrl"`
	JobTitle       string  `json:"jobTitle,omitempty"`
	JobDescription string  `json:"jobDescription,omitempty"`
}

// Generate posts the request and returns the raw response body. The payload
// shape is not contractually fixed upstream, so decoding is the caller's job.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	const op = "workflow.Generate"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode workflow request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to build workflow request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, utils.E(utils.CodeUnavailable, op, "cannot connect to question workflow", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "question workflow request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read workflow response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, utils.E(utils.CodeBadGateway, op, "question workflow endpoint not found", nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, utils.E(utils.CodeInternal, op,
			fmt.Sprintf("question workflow returned status %d", resp.StatusCode), nil)
	}

	return raw, nil
}
