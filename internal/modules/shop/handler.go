// Package shop implements restaurant search replies backed by HotPepper.
package shop

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/date-linebot-go/internal/hotpepper"
	"github.com/garyellow/date-linebot-go/internal/lineutil"
	"github.com/garyellow/date-linebot-go/internal/logger"
	"github.com/garyellow/date-linebot-go/internal/metrics"
)

// NoResultsText is sent when the search yields nothing, whether because
// nothing matched or because the search service failed.
const NoResultsText = "ごめん、該当が見つからなかった…🙏 条件を少し変えてみて！"

const moduleName = "shop"

// Searcher finds shops. *hotpepper.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, area, keyword string) []hotpepper.Shop
}

// Handler answers search_shop commands.
type Handler struct {
	searcher Searcher
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewHandler creates a shop handler.
func NewHandler(searcher Searcher, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		searcher: searcher,
		metrics:  m,
		logger:   log.WithModule(moduleName),
	}
}

// HandleShopSearch implements bot.ShopHandler.
func (h *Handler) HandleShopSearch(ctx context.Context, area, keyword string) []messaging_api.MessageInterface {
	shops := h.searcher.Search(ctx, area, keyword)
	if len(shops) == 0 {
		h.logger.InfoContext(ctx, "No shops found", "area", area, "keyword", keyword)
		h.metrics.RecordFallback(moduleName, "no_results")
		return []messaging_api.MessageInterface{lineutil.NewTextMessage(NoResultsText)}
	}
	return []messaging_api.MessageInterface{BuildCarousel(shops)}
}
