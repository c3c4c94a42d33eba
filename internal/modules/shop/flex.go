package shop

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/date-linebot-go/internal/hotpepper"
	"github.com/garyellow/date-linebot-go/internal/lineutil"
)

// Card copy.
const (
	AltText     = "お店候補を表示しました"
	DetailLabel = "詳細を見る"
)

// BuildCarousel renders one bubble per shop. Callers never pass an empty list.
func BuildCarousel(shops []hotpepper.Shop) *messaging_api.FlexMessage {
	bubbles := make([]messaging_api.FlexBubble, 0, len(shops))
	for _, s := range shops {
		bubbles = append(bubbles, *buildShopBubble(s).FlexBubble)
	}
	return lineutil.NewFlexMessage(AltText, lineutil.NewFlexCarousel(bubbles))
}

// buildShopBubble creates the card for a single shop.
//
// Layout:
//
//	┌──────────────────────────┐
//	│        photo 20:13       │  <- only when a photo exists
//	├──────────────────────────┤
//	│ 店名 (bold)               │
//	│ 住所 (gray)               │  <- only when an address exists
//	├──────────────────────────┤
//	│       [ 詳細を見る ]       │
//	└──────────────────────────┘
func buildShopBubble(s hotpepper.Shop) *lineutil.FlexBubble {
	var hero messaging_api.FlexComponentInterface
	if s.Photo != "" {
		hero = lineutil.NewFlexImage(s.Photo).
			WithSize("full").
			WithAspectRatio("20:13").
			WithAspectMode("cover").FlexImage
	}

	body := []messaging_api.FlexComponentInterface{
		lineutil.NewFlexText(s.Name).WithWeight("bold").WithSize("md").WithWrap(true).FlexText,
	}
	if s.Address != "" {
		body = append(body,
			lineutil.NewFlexText(s.Address).WithSize("sm").WithColor(lineutil.ColorLabel).WithWrap(true).FlexText)
	}

	footer := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexButton(lineutil.NewURIAction(DetailLabel, s.URL)).WithStyle("primary").FlexButton,
	).WithSpacing("sm")

	return lineutil.NewFlexBubble(hero, lineutil.NewFlexBox("vertical", body...), footer)
}
