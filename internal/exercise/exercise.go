package exercise

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/agent-samples/harness/api"
)

const previewMaxLen = 200

// Outcome classifies the single synthetic request sent to the sample.
type Outcome struct {
	StatusCode int
	Body       string
	Success    bool
	// Preview holds a truncated output_text/output extract on success.
	Preview string
}

// Exerciser sends one synthetic request to the sample's fixed endpoint.
// The request timeout bounds actual model and tool latency.
type Exerciser struct {
	url    string
	client *http.Client

	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Exerciser {
	return &Exerciser{
		url:     baseURL + "/responses",
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Send POSTs {"input": testInput, "stream": false} to /responses and
// classifies the result. A request timeout, a transport failure and an
// application-level non-200 each produce distinct error wording.
func (e *Exerciser) Send(testInput string) (Outcome, error) {
	payload, err := json.Marshal(api.ResponsesRequest{Input: testInput, Stream: false})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := e.client.Post(e.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return Outcome{}, fmt.Errorf("Request timed out after %d seconds", int(e.timeout.Seconds()))
		}
		return Outcome{}, fmt.Errorf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("Request failed: %v", err)
	}

	out := Outcome{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Success:    resp.StatusCode == http.StatusOK,
	}

	if !out.Success {
		return out, fmt.Errorf("Request failed with status %d: %s", resp.StatusCode, string(body))
	}

	out.Preview = extractPreview(body)
	return out, nil
}

// extractPreview pulls output_text (or output) from a JSON object body
// and truncates it. Non-object bodies yield no preview.
func extractPreview(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}

	v, ok := obj["output_text"]
	if !ok {
		v, ok = obj["output"]
	}
	if !ok {
		return truncate(string(body), previewMaxLen)
	}

	s, isStr := v.(string)
	if !isStr {
		s = fmt.Sprintf("%v", v)
	}
	return truncate(s, previewMaxLen)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
