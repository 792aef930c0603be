package dto

// GeminiContentPart is a single text part of a Gemini content block.
type GeminiContentPart struct {
	Text string `json:"text"`
}

// GeminiContent is a content block in a Gemini request or response.
type GeminiContent struct {
	Parts []GeminiContentPart `json:"parts"`
	Role  string              `json:"role,omitempty"`
}

// GeminiAPIRequest is the request body for the generateContent endpoint.
type GeminiAPIRequest struct {
	Contents []GeminiContent `json:"contents"`
}

// GeminiCandidate is one generated candidate.
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// GeminiAPIResponse is the response body for the generateContent endpoint.
type GeminiAPIResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}
