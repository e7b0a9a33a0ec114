// Package common contiene helpers compartidos por los converters de cada museo:
// limpieza de HTML, precedencia de campos y plantillas de imagen IIIF.
package common

import (
	"strings"

	"github.com/jaytaylor/html2text"
	"golang.org/x/net/html"
)

// StripTags removes inline markup from short fields (titles, artist names)
// and collapses whitespace. Entities are decoded. Input without markup is
// returned trimmed.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapse(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapse(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte(' ')
			}
		}
	}
}

// CleanDescription converts an HTML description into plain text, keeping
// paragraph breaks and dropping link targets. On conversion failure the
// tag-stripped text is returned.
func CleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return StripTags(s)
	}
	return strings.TrimSpace(text)
}

// FirstNonEmpty returns the first value that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// NonEmpty returns the trimmed non-blank values, never nil.
func NonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// JoinNonEmpty joins the non-blank values with sep.
func JoinNonEmpty(sep string, values ...string) string {
	return strings.Join(NonEmpty(values), sep)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
