// Package suggest implements the conversation coach: it turns the partner's
// last message into a short list of candidate replies.
package suggest

import (
	"context"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/date-linebot-go/internal/lineutil"
)

// Header is the first line of every suggestion reply.
const Header = "次の一言候補："

const bullet = "・"

// Suggester yields candidate replies. *genai.Client satisfies it.
type Suggester interface {
	SuggestReplies(ctx context.Context, message string) []string
}

// Handler formats suggestions as a single text message.
type Handler struct {
	suggester Suggester
}

// NewHandler creates a suggest handler backed by s.
func NewHandler(s Suggester) *Handler {
	return &Handler{suggester: s}
}

// HandleSuggest implements bot.SuggestHandler.
func (h *Handler) HandleSuggest(ctx context.Context, partnerMessage string) []messaging_api.MessageInterface {
	lines := h.suggester.SuggestReplies(ctx, partnerMessage)
	return []messaging_api.MessageInterface{lineutil.NewTextMessage(FormatSuggestions(lines))}
}

// FormatSuggestions renders the header followed by one bulleted line per suggestion.
// With no suggestions only the header line remains.
func FormatSuggestions(lines []string) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(bullet)
		b.WriteString(line)
	}
	return b.String()
}
