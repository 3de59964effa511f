package http

// GenerateRequest is the body of POST /generate/image.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}
