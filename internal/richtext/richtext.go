// Package richtext cleans and renders the HTML produced by the article
// editor.
package richtext

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements are removed together with their content.
var droppedElements = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true,
	"embed": true, "frame": true, "frameset": true, "applet": true,
	"base": true, "meta": true, "link": true, "form": true,
}

// urlAttributes may carry a javascript: URL.
var urlAttributes = map[string]bool{
	"href": true, "src": true, "action": true, "formaction": true,
	"xlink:href": true, "background": true, "poster": true,
}

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Sanitize parses an HTML fragment, removes active content and renders it
// back.
func Sanitize(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		if dropped(n) {
			continue
		}
		clean(n)
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("rendering html: %w", err)
		}
	}
	return sb.String(), nil
}

func dropped(n *html.Node) bool {
	return n.Type == html.ElementNode && droppedElements[strings.ToLower(n.Data)] ||
		n.Type == html.CommentNode
}

// clean strips unsafe attributes from n and removes dropped descendants.
func clean(n *html.Node) {
	if n.Type == html.ElementNode {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if urlAttributes[key] && unsafeURL(a.Val) {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dropped(c) {
			n.RemoveChild(c)
		} else {
			clean(c)
		}
		c = next
	}
}

// unsafeURL reports scriptable URL schemes, ignoring the whitespace and
// control characters browsers skip.
func unsafeURL(v string) bool {
	v = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
	v = strings.ToLower(v)
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:") ||
		strings.HasPrefix(v, "data:text/html")
}

// ToMarkdown renders article HTML as Markdown for terminal display.
func ToMarkdown(content string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	out, err := converter.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("converting html to markdown: %w", err)
	}
	out = excessiveLinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}

// Text returns the visible text of an HTML fragment with whitespace
// collapsed.
func Text(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if dropped(n) {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Excerpt returns at most n runes of visible text, ending with an ellipsis
// when the text was cut.
func Excerpt(fragment string, n int) string {
	text := Text(fragment)
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + "…"
}
