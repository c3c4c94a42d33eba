package bot

import "strings"

// HelpText is the usage message sent for "help".
var HelpText = strings.Join([]string{
	"使い方：",
	"・ping → pong",
	"・会話: <相手の文> → 次の一言候補",
	"・店: <エリア> <キーワード> → お店候補",
	"例）会話: 今日は何してた？",
	"例）店: 渋谷 ラーメン",
}, "\n")

const (
	// PongText answers "ping".
	PongText = "pong"

	echoPrefix = "echo: "
)

// EchoText formats the reply for unrecognized input.
func EchoText(body string) string {
	return echoPrefix + body
}
