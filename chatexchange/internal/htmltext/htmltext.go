// Package htmltext converts the HTML fragments the chat service embeds
// in message content into plain text.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are rendered as line breaks rather than dropped outright.
var blockTags = map[string]bool{
	"br":  true,
	"p":   true,
	"div": true,
}

// Text strips tags from an HTML fragment and decodes entities, returning
// the plain-text rendering. Invalid markup is tolerated; the tokenizer
// emits whatever text it can recover.
func Text(fragment string) string {
	tok := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.TrimRight(b.String(), "\n")
		case html.TextToken:
			// Text() returns the token with entities already decoded.
			b.Write(tok.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tok.TagName()
			if blockTags[string(name)] && b.Len() > 0 {
				b.WriteByte('\n')
			}
		}
	}
}
