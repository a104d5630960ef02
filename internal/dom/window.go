// Package dom holds the parsed document a DOM preload installs, and a
// minimal window-like binding of it for a JavaScript runtime.
package dom

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// DefaultHTML is used when no document is configured.
const DefaultHTML = "<!DOCTYPE html><html><head></head><body></body></html>"

// Window owns a parsed HTML document.
type Window struct {
	mu  sync.RWMutex
	doc *html.Node
}

// NewWindow parses src into a document. An empty src yields DefaultHTML.
func NewWindow(src string) (*Window, error) {
	doc, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Window{doc: doc}, nil
}

func parse(src string) (*html.Node, error) {
	if strings.TrimSpace(src) == "" {
		src = DefaultHTML
	}
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return doc, nil
}

// Document returns the document root node.
func (w *Window) Document() *html.Node {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.doc
}

// Write replaces the document with src, like document.write on a fresh
// document.
func (w *Window) Write(src string) error {
	doc, err := parse(src)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.doc = doc
	w.mu.Unlock()
	return nil
}

// Title returns the trimmed text of the first <title> element.
func (w *Window) Title() string {
	n := w.find(func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if n == nil {
		return ""
	}
	return strings.TrimSpace(TextContent(n))
}

// ElementByID returns the first element whose id attribute equals id.
func (w *Window) ElementByID(id string) *html.Node {
	return w.find(func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
}

// Body returns the <body> element.
func (w *Window) Body() *html.Node {
	return w.find(func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
}

// HTML serializes the document. Parsing then serializing normalizes the
// markup: implied elements are added and attributes are quoted.
func (w *Window) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, w.Document()); err != nil {
		return "", fmt.Errorf("dom: render document: %w", err)
	}
	return buf.String(), nil
}

func (w *Window) find(match func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if match(n) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(w.Document())
	return found
}

// TextContent concatenates the text nodes under n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render node: %w", err)
		}
	}
	return buf.String(), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
