package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/camuig/trade-quest/internal/journal"
)

var thinkTagRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinkTags removes reasoning-model <think> blocks from a reply.
func StripThinkTags(text string) string {
	return strings.TrimSpace(thinkTagRegex.ReplaceAllString(text, ""))
}

// ParseTrades decodes the trade blob handed to the analysis flows.
// Accepts a JSON array, a single object, or either wrapped in a code fence.
func ParseTrades(blob []byte) ([]journal.Trade, error) {
	cleaned := strings.TrimSpace(string(blob))
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidTradeData)
	}

	var trades []journal.Trade
	if err := json.Unmarshal([]byte(cleaned), &trades); err == nil {
		return trades, nil
	}

	var single journal.Trade
	if err := json.Unmarshal([]byte(cleaned), &single); err == nil {
		return []journal.Trade{single}, nil
	}

	return nil, fmt.Errorf("%w: %.200s", ErrInvalidTradeData, cleaned)
}
