// Package bot turns LINE text messages into commands and commands into replies.
package bot

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/date-linebot-go/internal/lineutil"
	"github.com/garyellow/date-linebot-go/internal/logger"
)

// SuggestHandler builds the reply for a suggest_reply command.
type SuggestHandler interface {
	HandleSuggest(ctx context.Context, partnerMessage string) []messaging_api.MessageInterface
}

// ShopHandler builds the reply for a search_shop command.
type ShopHandler interface {
	HandleShopSearch(ctx context.Context, area, keyword string) []messaging_api.MessageInterface
}

// Processor maps a Command to the messages of a single reply.
type Processor struct {
	suggest SuggestHandler
	shop    ShopHandler
	logger  *logger.Logger
}

// ProcessorConfig holds dependencies for creating a new Processor.
type ProcessorConfig struct {
	Suggest SuggestHandler
	Shop    ShopHandler
	Logger  *logger.Logger
}

// NewProcessor creates a new command processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		suggest: cfg.Suggest,
		shop:    cfg.Shop,
		logger:  cfg.Logger,
	}
}

// ProcessText parses text and returns the command with its reply messages.
func (p *Processor) ProcessText(ctx context.Context, text string) (Command, []messaging_api.MessageInterface) {
	cmd := ParseCommand(text)
	return cmd, p.Process(ctx, cmd)
}

// Process returns the reply messages for cmd. It never returns an empty slice.
func (p *Processor) Process(ctx context.Context, cmd Command) []messaging_api.MessageInterface {
	switch cmd.Kind {
	case CommandHelp:
		return textReply(HelpText)
	case CommandPing:
		return textReply(PongText)
	case CommandSuggestReply:
		p.logger.DebugContext(ctx, "Suggest reply requested", "length", len([]rune(cmd.Body)))
		return p.suggest.HandleSuggest(ctx, cmd.Body)
	case CommandSearchShop:
		p.logger.InfoContext(ctx, "Shop search requested", "area", cmd.Area, "keyword", cmd.Keyword)
		return p.shop.HandleShopSearch(ctx, cmd.Area, cmd.Keyword)
	default:
		return textReply(EchoText(cmd.Body))
	}
}

func textReply(text string) []messaging_api.MessageInterface {
	return []messaging_api.MessageInterface{lineutil.NewTextMessage(text)}
}
