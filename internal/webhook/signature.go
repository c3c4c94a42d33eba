package webhook

import (
	"encoding/base64"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the request body.
const SignatureHeader = "X-Line-Signature"

// VerifySignature reports whether signature is exactly the base64 HMAC-SHA256
// of body keyed with the channel secret. An empty signature or secret never
// verifies, and neither does any non-canonical spelling of a valid digest.
func VerifySignature(channelSecret, signature string, body []byte) bool {
	if channelSecret == "" || signature == "" || !isCanonicalBase64(signature) {
		return false
	}
	return webhook.ValidateSignature(channelSecret, signature, body)
}

// isCanonicalBase64 rejects encodings with non-zero padding bits, which the
// lenient decoder would otherwise map onto the same digest.
func isCanonicalBase64(s string) bool {
	decoded, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return false
	}
	return base64.StdEncoding.EncodeToString(decoded) == s
}
