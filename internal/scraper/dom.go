package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// classes returns the class list of an element.
func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

// hasClass reports whether n is an element carrying class exactly.
func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// classContains reports whether one of n's classes contains substr.
// The site decorates some classes with modifiers (rank-number--1).
func classContains(n *html.Node, substr string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range classes(n) {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}

func isTag(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// findAll returns every descendant of n (excluding n) matching pred, in
// document order. Matches are not searched for nested matches.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if pred(c) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first descendant matching pred, or nil.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// children returns the direct element children of n with the given tag.
func children(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isTag(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

// nodeText returns the text content of n with every text node trimmed and the
// pieces concatenated. Nil yields "".
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return b.String()
}

func byClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func byClassContains(substr string) func(*html.Node) bool {
	return func(n *html.Node) bool { return classContains(n, substr) }
}

func byTagClass(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return isTag(n, tag) && hasClass(n, class) }
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return isTag(n, tag) }
}
