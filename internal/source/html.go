package source

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// HTMLPage is the readable content of a saved quiz page.
type HTMLPage struct {
	Title string
	Text  string
}

// blockTags end a line of text. Quiz review pages put every answer in its
// own div or label, so those count too.
var blockTags = map[string]bool{
	"p": true, "div": true, "label": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"legend": true, "fieldset": true, "table": true, "ul": true, "ol": true,
}

// skippedTags never carry question text.
var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "nav": true,
	"footer": true, "aside": true, "iframe": true, "header": true,
	"button": true, "select": true,
}

// FromHTML extracts readable text from a saved page, preferring <main> or
// <article> over <body>.
func FromHTML(input []byte) HTMLPage {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return HTMLPage{}
	}
	var root *html.Node
	for _, tag := range []string{"main", "article", "body"} {
		if root = findFirst(node, tag); root != nil {
			break
		}
	}
	var b strings.Builder
	if root != nil {
		collectText(&b, root)
	}
	var title string
	if head := findFirst(node, "head"); head != nil {
		if t := findFirst(head, "title"); t != nil && t.FirstChild != nil {
			title = strings.TrimSpace(t.FirstChild.Data)
		}
	}
	return HTMLPage{Title: title, Text: normalizeLines(b.String())}
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findFirst(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.NewReplacer("\t", " ", "\r", " ").Replace(n.Data))
		return
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if skippedTags[name] || isChrome(n) {
			return
		}
		if name == "br" || blockTags[name] {
			b.WriteByte('\n')
		}
		if name == "input" && (attr(n, "type") == "radio" || attr(n, "type") == "checkbox") {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode && blockTags[strings.ToLower(n.Data)] {
		b.WriteByte('\n')
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.ToLower(a.Val)
		}
	}
	return ""
}

// isChrome matches cookie banners and quiz navigation panels.
func isChrome(n *html.Node) bool {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "id", "class", "role", "aria-label":
		default:
			continue
		}
		v := strings.ToLower(a.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr", "qn_buttons", "quiznavigation", "accesshide"} {
			if strings.Contains(v, marker) {
				return true
			}
		}
	}
	return false
}

// normalizeLines collapses whitespace inside lines and drops blank lines.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if f := strings.Fields(l); len(f) > 0 {
			out = append(out, strings.Join(f, " "))
		}
	}
	return strings.Join(out, "\n")
}
