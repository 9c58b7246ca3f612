package api

// ResponsesRequest is the body POSTed to the sample's /responses endpoint.
type ResponsesRequest struct {
	Input  string `json:"input"`
	Stream bool   `json:"stream"`
}
