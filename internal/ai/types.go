package ai

import "errors"

// ErrInvalidTradeData is returned before any request when the trade blob does
// not decode as a list of trades.
var ErrInvalidTradeData = errors.New("invalid trade data")

// Reply is the coach's answer. Fallback is set when the text is the static
// message shown in place of a failed completion.
type Reply struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

type ChatMessage struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

type ChatRequest struct {
	System   string        `json:"system,omitempty"`
	ImageURL string        `json:"image_url,omitempty"`
	History  []ChatMessage `json:"history"`
}
