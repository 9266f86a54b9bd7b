// Package markup escapes user-supplied text for MarkdownV2 rendering.
package markup

import "strings"

// The MarkdownV2 reserved set. Any of these left unescaped in
// interpolated text corrupts rendering or fails the send outright.
var escaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"]", `\]`,
	"(", `\(`,
	")", `\)`,
	"~", `\~`,
	"`", "\\`",
	">", `\>`,
	"#", `\#`,
	"+", `\+`,
	"-", `\-`,
	"=", `\=`,
	"|", `\|`,
	"{", `\{`,
	"}", `\}`,
	".", `\.`,
	"!", `\!`,
)

// EscapeMarkdown prefixes every MarkdownV2 reserved character in text
// with a backslash.
func EscapeMarkdown(text string) string {
	return escaper.Replace(text)
}
