package shop

import (
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/date-linebot-go/internal/hotpepper"
	"github.com/garyellow/date-linebot-go/internal/lineutil"
)

func carouselOf(t *testing.T, msg *messaging_api.FlexMessage) *messaging_api.FlexCarousel {
	t.Helper()
	carousel, ok := msg.Contents.(*messaging_api.FlexCarousel)
	if !ok {
		t.Fatalf("Contents is %T, want *FlexCarousel", msg.Contents)
	}
	return carousel
}

func TestBuildCarousel_BubblePerShop(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 3, 5} {
		msg := BuildCarousel(testShops(n))
		if got := len(carouselOf(t, msg).Contents); got != n {
			t.Errorf("BuildCarousel(%d shops) has %d bubbles", n, got)
		}
	}
}

func TestBuildCarousel_CappedByLineLimit(t *testing.T) {
	t.Parallel()

	msg := BuildCarousel(testShops(lineutil.MaxFlexCarouselBubbleCount + 3))
	if got := len(carouselOf(t, msg).Contents); got != lineutil.MaxFlexCarouselBubbleCount {
		t.Errorf("bubbles = %d, want %d", got, lineutil.MaxFlexCarouselBubbleCount)
	}
}

func TestBuildShopBubble_Full(t *testing.T) {
	t.Parallel()

	shop := testShops(1)[0]
	bubble := buildShopBubble(shop)

	hero, ok := bubble.Hero.(*messaging_api.FlexImage)
	if !ok {
		t.Fatalf("Hero is %T, want *FlexImage", bubble.Hero)
	}
	if hero.Url != shop.Photo || hero.Size != "full" || hero.AspectRatio != "20:13" || string(hero.AspectMode) != "cover" {
		t.Errorf("unexpected hero %+v", hero)
	}

	if len(bubble.Body.Contents) != 2 {
		t.Fatalf("body has %d components, want 2", len(bubble.Body.Contents))
	}
	name := bubble.Body.Contents[0].(*messaging_api.FlexText)
	if name.Text != shop.Name || string(name.Weight) != "bold" || name.Size != "md" || !name.Wrap {
		t.Errorf("unexpected name text %+v", name)
	}
	addr := bubble.Body.Contents[1].(*messaging_api.FlexText)
	if addr.Text != shop.Address || addr.Size != "sm" || addr.Color != "#666666" || !addr.Wrap {
		t.Errorf("unexpected address text %+v", addr)
	}

	if bubble.Footer.Spacing != "sm" || len(bubble.Footer.Contents) != 1 {
		t.Fatalf("unexpected footer %+v", bubble.Footer)
	}
	button := bubble.Footer.Contents[0].(*messaging_api.FlexButton)
	if string(button.Style) != "primary" {
		t.Errorf("button style = %q", button.Style)
	}
	action := button.Action.(*messaging_api.UriAction)
	if action.Label != DetailLabel || action.Uri != shop.URL {
		t.Errorf("unexpected action %+v", action)
	}
}

func TestBuildShopBubble_OptionalParts(t *testing.T) {
	t.Parallel()

	bubble := buildShopBubble(hotpepper.Shop{Name: "名前だけ", URL: hotpepper.DefaultShopURL})

	if bubble.Hero != nil {
		t.Errorf("Hero = %#v, want nil without photo", bubble.Hero)
	}
	if len(bubble.Body.Contents) != 1 {
		t.Errorf("body has %d components, want 1 without address", len(bubble.Body.Contents))
	}
}
