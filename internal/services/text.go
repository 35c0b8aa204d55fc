package services

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Ellipsis marks truncated text
const Ellipsis = "…"

var moreLanguages = language.NewMatcher([]language.Tag{language.English, language.Japanese})

func init() {
	_ = message.SetString(language.Japanese, "See more", "もっと見る")
}

// StripTags returns the text content of an HTML fragment with entities decoded
func StripTags(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Truncate shortens s to max characters, appending Ellipsis when cut.
// max <= 0 leaves s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + Ellipsis
}

// PlainExcerpt strips markup from an HTML description and truncates it
func PlainExcerpt(description string, max int) string {
	return Truncate(strings.TrimSpace(StripTags(description)), max)
}

// MoreText is the default label of the "more" link in lang
func MoreText(lang string) string {
	tag, _ := language.MatchStrings(moreLanguages, lang)
	base, _ := tag.Base()
	if base.String() == "ja" {
		tag = language.Japanese
	} else {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("See more")
}
