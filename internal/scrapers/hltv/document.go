package hltv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNodeNotFound is returned when an expected document node or attribute is
// absent, it means the page layout is not the one the extractors expect.
var ErrNodeNotFound = errors.New("hltv: node not found")

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNodeNotFound, what)
}

// findFirst returns the first descendant of s matching selector.
func findFirst(s *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := s.Find(selector)
	if found.Length() == 0 {
		return nil, notFound(selector)
	}
	return found.First(), nil
}

// findAll returns every descendant of s matching selector, it fails if there
// are less than atLeast of them.
func findAll(s *goquery.Selection, selector string, atLeast int) (*goquery.Selection, error) {
	found := s.Find(selector)
	if found.Length() < atLeast {
		return nil, notFound(fmt.Sprintf("%s (%d of %d)", selector, found.Length(), atLeast))
	}
	return found, nil
}

func attr(s *goquery.Selection, name string) (string, error) {
	value, ok := s.Attr(name)
	if !ok {
		return "", notFound("@" + name)
	}
	return value, nil
}

// contentAt returns the i-th direct child node of s, text nodes included.
// A negative i counts from the end.
func contentAt(s *goquery.Selection, i int) (*goquery.Selection, error) {
	contents := s.Contents()
	if i < 0 {
		i += contents.Length()
	}
	if i < 0 || i >= contents.Length() {
		return nil, notFound(fmt.Sprintf("child node %d", i))
	}
	return contents.Eq(i), nil
}

// elementAt returns the i-th direct element child of s, a negative i counts
// from the end.
func elementAt(s *goquery.Selection, i int) (*goquery.Selection, error) {
	children := s.Children()
	if i < 0 {
		i += children.Length()
	}
	if i < 0 || i >= children.Length() {
		return nil, notFound(fmt.Sprintf("child element %d", i))
	}
	return children.Eq(i), nil
}

// nextText returns the text of the text node directly after s.
func nextText(s *goquery.Selection) (string, error) {
	if len(s.Nodes) == 0 {
		return "", notFound("sibling text")
	}
	next := s.Nodes[0].NextSibling
	if next == nil || next.Type != html.TextNode {
		return "", notFound("sibling text")
	}
	return strings.TrimSpace(next.Data), nil
}

// firstClass returns the first class token of s.
func firstClass(s *goquery.Selection) (string, error) {
	class, err := attr(s, "class")
	if err != nil {
		return "", err
	}
	tokens := strings.Fields(class)
	if len(tokens) == 0 {
		return "", notFound("class token")
	}
	return tokens[0], nil
}

// pathSegment returns the i-th "/" separated segment of a link, a negative i
// counts from the end.
func pathSegment(link string, i int) (string, error) {
	segments := strings.Split(link, "/")
	if i < 0 {
		i += len(segments)
	}
	if i < 0 || i >= len(segments) || segments[i] == "" {
		return "", notFound(fmt.Sprintf("segment %d of %q", i, link))
	}
	return segments[i], nil
}
