package api

// SampleDescriptor identifies one testable hosted agent sample. It is
// produced by discovery and consumed by the harness; the harness only
// requires Path to point at a directory containing an agent.yaml.
type SampleDescriptor struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Framework string `json:"framework"`
	Language  string `json:"language"`
}
