package schedule

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"festcal/fetch"
	"festcal/formatting"
)

// Detail pages are optional garnish, so a dead one gets a handful of
// tries instead of the unbounded retries the schedule pages get.
const enrichAttempts = 5

// EnrichBand fetches a band's detail page and pulls out a homepage URL
// (the "Online"-labeled link) and a plain-text description from the
// page's main content region. Any extraction miss yields empty strings;
// enrichment never fails a record.
func EnrichBand(f *fetch.Fetcher, band, pageURL string) (homepage, description string) {
	body := f.Fetch(pageURL, enrichAttempts)
	if body == fetch.Failed {
		return "", ""
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", ""
	}

	homepage = findLabeledLink(doc, "online")
	if homepage != "" {
		if u, err := url.Parse(homepage); err == nil && u.Host != "" && u.Path == "" {
			homepage += "/"
		}
	}

	region := findMainRegion(doc)
	if region == nil {
		return homepage, ""
	}
	if containsHeading(region) {
		// A heading inside the content region means we landed on a
		// navigation or index page, not a bio.
		return homepage, ""
	}
	description = formatting.Normalize(collectBlockText(region))
	return homepage, description
}

// findLabeledLink returns the href of the first anchor that either
// carries the label as its own text or directly follows a text node
// containing it.
func findLabeledLink(doc *html.Node, label string) string {
	labeled := false
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.TextNode {
			text := strings.ToLower(strings.TrimSpace(n.Data))
			if text != "" {
				labeled = strings.Contains(text, label)
			}
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			href := attrValue(n, "href")
			if href != "" {
				anchorText := strings.ToLower(collectBlockText(n))
				if labeled || strings.Contains(anchorText, label) {
					found = href
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// findMainRegion locates the page's main content block, skipping the
// social-links and sidebar blocks entirely. Falls back to <body> when
// no marked region exists.
func findMainRegion(doc *html.Node) *html.Node {
	var body, main *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if main != nil {
			return
		}
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Body {
				body = n
			}
			marker := attrValue(n, "id") + " " + attrValue(n, "class")
			marker = strings.ToLower(marker)
			if strings.Contains(marker, "main") || strings.Contains(marker, "content") {
				main = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if main != nil {
		return main
	}
	return body
}

func containsHeading(n *html.Node) bool {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			return true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if containsHeading(c) {
			return true
		}
	}
	return false
}

func skippedBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Nav:
		return true
	}
	marker := strings.ToLower(attrValue(n, "id") + " " + attrValue(n, "class"))
	return strings.Contains(marker, "social") || strings.Contains(marker, "sidebar")
}

// collectBlockText flattens a subtree to text, inserting newlines at
// block boundaries so Normalize can collapse them sensibly.
func collectBlockText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skippedBlock(n) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		block := false
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.P, atom.Div, atom.Br, atom.Li, atom.Tr:
				block = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteString("\n")
		}
	}
	walk(n)
	return b.String()
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
