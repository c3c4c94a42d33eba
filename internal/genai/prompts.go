package genai

import "strings"

// SystemPrompt sets the conversation-coach persona for every provider.
const SystemPrompt = "あなたはデート前の雑談を整える会話コーチです。" +
	"相手の文に対して、敬語ベースで軽すぎず硬すぎず、次につながる短文を3つ、日本語で1行ずつ返してください。" +
	"個人情報の要求や過度な約束の押し付けは避けてください。"

// NoKeyFallback is returned when no provider is configured.
var NoKeyFallback = []string{
	"そうなんですね、ちなみに休日は何してます？",
	"いいですね！その話もう少し聞きたいです。",
	"よかったら今週どこかでカフェ行きません？",
}

// DegradedFallback is returned when every configured provider failed.
var DegradedFallback = []string{
	"なるほど！ちなみに最近どこか行きました？",
	"いいですね。好きな食べ物って何ですか？",
	"差し支えなければ、今週のご都合どうですか？",
}

// splitSuggestions keeps the first MaxSuggestions non-blank lines, trimmed.
func splitSuggestions(text string) []string {
	out := make([]string, 0, MaxSuggestions)
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
