package html

import (
	"errors"
	"strings"
)

// ErrParse is returned when the input cannot be turned into a Document
var ErrParse = errors.New("html parse error")

// NodeKind identifies which variant of Node is populated
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// NodeRef is a handle into a Document's node arena
type NodeRef int

// InvalidRef never resolves
const InvalidRef NodeRef = -1

// Attribute is a single element attribute. A nil Value marks a value-less
// attribute such as <input disabled>.
type Attribute struct {
	Name  string
	Value *string
}

// HasValue reports whether the attribute was written with a value
func (a Attribute) HasValue() bool {
	return a.Value != nil
}

// Attributes is the ordered attribute collection of an element
type Attributes []Attribute

// Get returns the attribute with the given name
func (a Attributes) Get(name string) (Attribute, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// ID returns the id attribute value. A value-less id counts as absent.
func (a Attributes) ID() (string, bool) {
	attr, ok := a.Get("id")
	if !ok || attr.Value == nil {
		return "", false
	}
	return *attr.Value, true
}

// ClassIter returns the whitespace-separated class tokens, or false when the
// element has no class attribute
func (a Attributes) ClassIter() ([]string, bool) {
	attr, ok := a.Get("class")
	if !ok {
		return nil, false
	}
	if attr.Value == nil {
		return []string{}, true
	}
	return strings.Fields(*attr.Value), true
}

// Node is one entry of the arena. Which fields are meaningful depends on Kind.
type Node struct {
	Kind       NodeKind
	Name       string
	Attributes Attributes
	Children   []NodeRef
	Data       string
}

// NewElement builds an element node
func NewElement(name string, attrs Attributes, children ...NodeRef) Node {
	return Node{Kind: ElementNode, Name: name, Attributes: attrs, Children: children}
}

// NewText builds a text node
func NewText(data string) Node {
	return Node{Kind: TextNode, Data: data}
}

// NewComment builds a comment node
func NewComment(data string) Node {
	return Node{Kind: CommentNode, Data: data}
}

// Value returns a pointer to v, for building valued attributes
func Value(v string) *string {
	return &v
}

// Document is a parsed HTML tree. Nodes are referenced indirectly and a
// reference may fail to resolve.
type Document interface {
	// Children returns the top-level node references
	Children() []NodeRef

	// Resolve dereferences a node handle
	Resolve(ref NodeRef) (*Node, bool)

	// Len returns the number of nodes in the arena
	Len() int
}

// Parser turns HTML into a Document
type Parser interface {
	Parse(html string) (Document, error)
}

// ArenaDocument stores every node in one flat slice
type ArenaDocument struct {
	nodes []Node
	roots []NodeRef
}

// NewDocument creates a document from an arena and its top-level references
func NewDocument(nodes []Node, roots []NodeRef) *ArenaDocument {
	return &ArenaDocument{nodes: nodes, roots: roots}
}

// Children returns the top-level node references
func (d *ArenaDocument) Children() []NodeRef {
	return d.roots
}

// Resolve returns the node behind ref, or false when ref is out of range
func (d *ArenaDocument) Resolve(ref NodeRef) (*Node, bool) {
	if ref < 0 || int(ref) >= len(d.nodes) {
		return nil, false
	}
	return &d.nodes[ref], true
}

// Len returns the number of nodes in the arena
func (d *ArenaDocument) Len() int {
	return len(d.nodes)
}

// add appends a node and returns its handle
func (d *ArenaDocument) add(n Node) NodeRef {
	d.nodes = append(d.nodes, n)
	return NodeRef(len(d.nodes) - 1)
}
