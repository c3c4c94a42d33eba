package lineutil

// LINE API Limits (Rune count)
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength       = 5000 // Text message max content length
	MaxAltTextLength           = 400  // Flex message alt text length
	MaxActionLabelLength       = 40   // Button action label length
	MaxFlexCarouselBubbleCount = 12   // Max bubbles in a Flex carousel
	MaxMessagesPerReply        = 5    // Max messages in one reply call
)
