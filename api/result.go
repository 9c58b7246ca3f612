package api

// TestResult is the single persisted record of one harness run. It is
// written once after the run concludes and never mutated afterwards.
type TestResult struct {
	Sample  string      `json:"sample"`
	Name    string      `json:"name"`
	Success bool        `json:"success"`
	Error   *string     `json:"error"`
	Details TestDetails `json:"details"`
}

// TestDetails carries per-stage observations. Fields are omitted when the
// corresponding stage was never reached.
type TestDetails struct {
	Language        string  `json:"language,omitempty"`
	TestInput       string  `json:"test_input,omitempty"`
	Build           *string `json:"build,omitempty"`
	ServerStarted   bool    `json:"server_started,omitempty"`
	ResponseStatus  *int    `json:"response_status,omitempty"`
	ResponsePreview *string `json:"response_preview,omitempty"`
}

func (r *TestResult) SetError(msg string) {
	r.Error = &msg
}
