package dto

// ChatMessage is one message in an OpenAI-compatible chat request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DeepSeekAPIRequest is the request body for the chat completions endpoint.
type DeepSeekAPIRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatChoice is one completion choice.
type ChatChoice struct {
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// DeepSeekAPIResponse is the response body for the chat completions endpoint.
type DeepSeekAPIResponse struct {
	Choices []ChatChoice `json:"choices"`
}
