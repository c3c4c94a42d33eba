package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// CommandKind identifies what a text message asks the bot to do.
type CommandKind string

const (
	CommandHelp         CommandKind = "help"
	CommandPing         CommandKind = "ping"
	CommandEcho         CommandKind = "echo"
	CommandSuggestReply CommandKind = "suggest_reply"
	CommandSearchShop   CommandKind = "search_shop"
)

// Command is the parsed form of one text message.
// Body is set for echo and suggest_reply; Area and Keyword for search_shop.
type Command struct {
	Kind    CommandKind
	Body    string
	Area    string
	Keyword string
}

const (
	helpKeyword       = "help"
	pingKeyword       = "ping"
	conversationLabel = "会話"
	shopLabel         = "店"
)

// commandRule matches already-trimmed text. Rules are tried in order.
type commandRule struct {
	name  string
	match func(text string) (Command, bool)
}

var commandRules = []commandRule{
	{name: "help", match: matchKeyword(helpKeyword, CommandHelp)},
	{name: "ping", match: matchKeyword(pingKeyword, CommandPing)},
	{name: "conversation", match: matchConversation},
	{name: "shop", match: matchShop},
}

// ParseCommand maps a message text to exactly one Command.
// Anything no rule recognizes becomes an echo of the trimmed text.
func ParseCommand(text string) Command {
	t := strings.TrimSpace(text)
	for _, rule := range commandRules {
		if cmd, ok := rule.match(t); ok {
			return cmd
		}
	}
	return Command{Kind: CommandEcho, Body: t}
}

func matchKeyword(keyword string, kind CommandKind) func(string) (Command, bool) {
	return func(text string) (Command, bool) {
		if strings.EqualFold(text, keyword) {
			return Command{Kind: kind}, true
		}
		return Command{}, false
	}
}

// matchConversation accepts "会話:" or "会話：" followed by a one-line body.
func matchConversation(text string) (Command, bool) {
	rest, ok := cutMarker(text, conversationLabel)
	if !ok {
		return Command{}, false
	}
	body := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if body == "" || hasLineBreak(body) {
		return Command{}, false
	}
	return Command{Kind: CommandSuggestReply, Body: body}, true
}

// matchShop accepts "店:" followed by an area token, whitespace, and a one-line keyword.
func matchShop(text string) (Command, bool) {
	rest, ok := cutMarker(text, shopLabel)
	if !ok {
		return Command{}, false
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end <= 0 {
		return Command{}, false
	}
	area := rest[:end]
	keyword := strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	if keyword == "" || hasLineBreak(keyword) {
		return Command{}, false
	}
	return Command{Kind: CommandSearchShop, Area: area, Keyword: keyword}, true
}

// cutMarker strips label plus a colon, treating the full-width colon as ":".
func cutMarker(text, label string) (string, bool) {
	rest, ok := strings.CutPrefix(text, label)
	if !ok {
		return "", false
	}
	r, size := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError || width.Fold.String(string(r)) != ":" {
		return "", false
	}
	return rest[size:], true
}

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\n\r\u2028\u2029")
}
