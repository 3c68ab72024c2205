package html

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	fullDocumentPattern = regexp.MustCompile(`(?i)<(!doctype|html[\s>/])`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// GoQueryParser implements Parser on top of x/net/html, using goquery for
// root selection
type GoQueryParser struct {
	selector string
}

// ParserOption configures a GoQueryParser
type ParserOption func(*GoQueryParser)

// WithSelector restricts the document roots to the nodes matching a CSS
// selector. Matches nested inside another match are dropped.
func WithSelector(selector string) ParserOption {
	return func(p *GoQueryParser) {
		p.selector = NormalizeSelector(selector)
	}
}

// NewParser creates a new HTML parser
func NewParser(opts ...ParserOption) *GoQueryParser {
	p := &GoQueryParser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses an HTML string into a Document.
//
// Input containing an <html> tag or a doctype is parsed as a full document.
// Anything else is parsed as a fragment, so "<p>hi</p>" yields a single
// top-level p element rather than an html/head/body skeleton. Elements the
// tree builder adds on its own (an implied head, body or tbody) are unwrapped
// unless they carry attributes.
func (p *GoQueryParser) Parse(htmlStr string) (Document, error) {
	tags := scanStartTags(htmlStr)

	root, err := parseTree(htmlStr, tags)
	if err != nil {
		return nil, err
	}

	tops, err := p.roots(root)
	if err != nil {
		return nil, err
	}

	b := &builder{
		doc:     &ArenaDocument{},
		matcher: newTagMatcher(tags),
	}
	b.annotate(root)

	for _, n := range tops {
		if p.selector != "" {
			// a selected element is kept even if the tree builder made it up
			delete(b.implied, n)
		}
		b.doc.roots = append(b.doc.roots, b.flatten(n)...)
	}

	return b.doc, nil
}

func parseTree(htmlStr string, tags []startTag) (*html.Node, error) {
	if fullDocumentPattern.MatchString(htmlStr) {
		doc, err := html.Parse(strings.NewReader(htmlStr))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return doc, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(htmlStr), fragmentContext(tags))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// fragmentContext picks the element a fragment is parsed inside of. Table
// parts are only kept by the tree builder inside their table context, so a
// fragment that opens with one gets that context instead of body.
func fragmentContext(tags []startTag) *html.Node {
	a := atom.Body
	if len(tags) > 0 {
		switch atom.Lookup([]byte(strings.ToLower(tags[0].name))) {
		case atom.Tr:
			a = atom.Tbody
		case atom.Td, atom.Th:
			a = atom.Tr
		case atom.Thead, atom.Tbody, atom.Tfoot, atom.Caption, atom.Colgroup:
			a = atom.Table
		case atom.Col:
			a = atom.Colgroup
		}
	}
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

// roots picks the top-level nodes to convert
func (p *GoQueryParser) roots(root *html.Node) ([]*html.Node, error) {
	if p.selector == "" {
		var tops []*html.Node
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			tops = append(tops, c)
		}
		return tops, nil
	}

	sel, err := cascadia.Compile(p.selector)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid selector %q: %v", ErrParse, p.selector, err)
	}

	matched := goquery.NewDocumentFromNode(root).FindMatcher(sel)
	seen := make(map[*html.Node]bool, matched.Length())
	var tops []*html.Node

	matched.Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		seen[n] = true
		for a := n.Parent; a != nil; a = a.Parent {
			if seen[a] {
				return
			}
		}
		tops = append(tops, n)
	})

	return tops, nil
}

// builder copies an x/net/html tree into an arena
type builder struct {
	doc       *ArenaDocument
	matcher   *tagMatcher
	valueless map[*html.Node]map[string]bool
	implied   map[*html.Node]bool
}

// annotate walks the whole tree in document order and pairs each element
// with its start tag, recording value-less attributes and elements that
// have no start tag at all
func (b *builder) annotate(root *html.Node) {
	b.valueless = make(map[*html.Node]map[string]bool)
	b.implied = make(map[*html.Node]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			names, ok := b.matcher.match(n)
			if !ok {
				b.implied[n] = true
			} else if len(names) > 0 {
				b.valueless[n] = names
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// flatten copies n into the arena and returns the references that take its
// place: one for most nodes, the children of an unwrapped implied element,
// none for nodes without a counterpart
func (b *builder) flatten(n *html.Node) []NodeRef {
	switch n.Type {
	case html.ElementNode:
		var children []NodeRef
		if b.implied[n] && len(n.Attr) == 0 {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				children = append(children, b.flatten(c)...)
			}
			return children
		}

		ref := b.doc.add(NewElement(n.Data, b.attributes(n)))
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, b.flatten(c)...)
		}
		b.doc.nodes[ref].Children = children
		return []NodeRef{ref}
	case html.TextNode, html.RawNode:
		return []NodeRef{b.doc.add(NewText(n.Data))}
	case html.CommentNode:
		return []NodeRef{b.doc.add(NewComment(n.Data))}
	default:
		// doctype and nested document nodes have no counterpart
		return nil
	}
}

func (b *builder) attributes(n *html.Node) Attributes {
	if len(n.Attr) == 0 {
		return nil
	}

	flags := b.valueless[n]
	attrs := make(Attributes, 0, len(n.Attr))
	for _, a := range n.Attr {
		attr := Attribute{Name: attributeName(a)}
		if a.Val != "" || !flags[strings.ToLower(attr.Name)] {
			attr.Value = Value(a.Val)
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

// Helper functions for selector handling

// NormalizeSelector trims a CSS selector and collapses runs of whitespace
func NormalizeSelector(selector string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(selector), " ")
}
