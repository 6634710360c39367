// Package markup provides mention extraction and safe linkification of
// user-authored text.
package markup

import (
	"html"
	"net/url"
	"regexp"
)

var (
	mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_]+)`)
	// Hashtags additionally allow Cyrillic letters.
	hashtagPattern = regexp.MustCompile(`#([a-zA-Zа-яА-ЯёЁ0-9_]+)`)
)

// ExtractMentions returns the deduplicated @handles referenced in text, in
// first-seen order. Matching is case-sensitive; resolution against stored
// handles is the caller's concern.
func ExtractMentions(text string) []string {
	var handles []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		h := m[1]
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		handles = append(handles, h)
	}
	return handles
}

// Linkify HTML-escapes text and rewrites #tag sequences into tag-search links
// and @handle sequences into profile links. Escaping happens first so that
// markup smuggled into the raw text can never be reinterpreted as HTML.
func Linkify(text string) string {
	if text == "" {
		return ""
	}
	escaped := html.EscapeString(text)
	linked := hashtagPattern.ReplaceAllStringFunc(escaped, func(match string) string {
		tag := match[1:]
		return `<a href="/tag/` + url.PathEscape(tag) + `" class="hashtag">#` + tag + `</a>`
	})
	return mentionPattern.ReplaceAllString(linked, `<a href="/u/$1" class="mention">@$1</a>`)
}
