// Package emitter renders a parsed HTML tree as builder-style DSL text.
//
// Every node is wrapped in a .child( ... ) pair, top-level nodes included,
// which leaves one artificial wrapper line at each end of the buffer. Those
// are removed after blank lines have been dropped.
package emitter

import (
	"fmt"
	"strings"

	"html2sl/internal/html"
)

// DefaultIndent is one indentation level
const DefaultIndent = "    "

// DefaultEscapePrefix turns a reserved identifier into a raw identifier
const DefaultEscapePrefix = "r#"

// DefaultReservedNames are attribute names that collide with reserved words
// of the target builder syntax
var DefaultReservedNames = []string{"async", "for", "type"}

// Options controls the emitted text
type Options struct {
	// Indent is repeated once per nesting level
	Indent string

	// Escapes maps an attribute name to the identifier emitted in its place
	Escapes map[string]string

	// EscapeLiterals backslash-escapes quotes, backslashes and line breaks
	// inside string literals. Off by default: values are interpolated verbatim.
	EscapeLiterals bool

	// Strict makes an empty result an error instead of an empty string
	Strict bool
}

// EscapeTable builds the name escape table for a set of reserved names
func EscapeTable(prefix string, reserved []string) map[string]string {
	table := make(map[string]string, len(reserved))
	for _, name := range reserved {
		table[name] = prefix + name
	}
	return table
}

// DefaultOptions returns four-space indentation and the default escape table
func DefaultOptions() Options {
	return Options{
		Indent:  DefaultIndent,
		Escapes: EscapeTable(DefaultEscapePrefix, DefaultReservedNames),
	}
}

// Stats counts what happened during one emission
type Stats struct {
	ElementsEmitted   int
	TextNodesEmitted  int
	CommentsDropped   int
	BlankTextDropped  int
	UnresolvedSkipped int
	LinesWritten      int
}

// Emitter converts Documents to DSL text. It holds no per-call state and is
// safe for concurrent use.
type Emitter struct {
	opts    Options
	literal *strings.Replacer
}

// New creates an emitter
func New(opts Options) *Emitter {
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	e := &Emitter{opts: opts}
	if opts.EscapeLiterals {
		e.literal = strings.NewReplacer(
			`\`, `\\`,
			`"`, `\"`,
			"\n", `\n`,
			"\r", `\r`,
			"\t", `\t`,
		)
	}
	return e
}

// Emit returns the DSL text for doc. A document that produces no output
// yields the empty string.
func (e *Emitter) Emit(doc html.Document) string {
	out, _, _ := e.emit(doc, false)
	return out
}

// EmitStrict is like Emit but returns ErrEmptyDocument when the document
// produces no output
func (e *Emitter) EmitStrict(doc html.Document) (string, error) {
	out, _, err := e.emit(doc, true)
	return out, err
}

// EmitWithStats returns the DSL text along with emission counters. The
// empty-document policy follows Options.Strict.
func (e *Emitter) EmitWithStats(doc html.Document) (string, Stats, error) {
	return e.emit(doc, e.opts.Strict)
}

func (e *Emitter) emit(doc html.Document, strict bool) (string, Stats, error) {
	w := &writer{Emitter: e, doc: doc}
	for _, ref := range doc.Children() {
		w.visit(ref, 1)
	}

	out, err := TrimBoundaryLines(RemoveBlankLines(w.buf.String()))
	if err == nil && out == "" {
		err = ErrEmptyDocument
	}
	if err != nil {
		if strict {
			return "", w.stats, err
		}
		return "", w.stats, nil
	}

	w.stats.LinesWritten = strings.Count(out, "\n") + 1
	return out, w.stats, nil
}

// writer is the state of a single emission
type writer struct {
	*Emitter
	doc   html.Document
	buf   strings.Builder
	stats Stats
}

func (w *writer) spaces(count int) string {
	return strings.Repeat(w.opts.Indent, count)
}

func (w *writer) quote(s string) string {
	if w.literal == nil {
		return s
	}
	return w.literal.Replace(s)
}

func (w *writer) escapeName(name string) string {
	if escaped, ok := w.opts.Escapes[name]; ok {
		return escaped
	}
	return name
}

func (w *writer) visit(ref html.NodeRef, indent int) {
	node, ok := w.doc.Resolve(ref)
	if !ok {
		w.stats.UnresolvedSkipped++
		return
	}

	switch node.Kind {
	case html.ElementNode:
		fmt.Fprintf(&w.buf, "%s.child(\n", w.spaces(indent))
		w.visitElement(node, indent)
		fmt.Fprintf(&w.buf, "%s)\n", w.spaces(indent))
	case html.CommentNode:
		w.stats.CommentsDropped++
	case html.TextNode:
		text := strings.TrimSpace(node.Data)
		if text == "" {
			w.stats.BlankTextDropped++
			return
		}
		fmt.Fprintf(&w.buf, "%s.child(\"%s\")\n", w.spaces(indent), w.quote(text))
		w.stats.TextNodesEmitted++
	}
}

func (w *writer) visitElement(tag *html.Node, indent int) {
	w.stats.ElementsEmitted++
	fmt.Fprintf(&w.buf, "%s%s()\n", w.spaces(indent), tag.Name)

	inner := w.spaces(indent + 1)
	if id, ok := tag.Attributes.ID(); ok {
		fmt.Fprintf(&w.buf, "%s.id(\"%s\")\n", inner, w.quote(id))
	}

	if classes, ok := tag.Attributes.ClassIter(); ok {
		for _, class := range classes {
			fmt.Fprintf(&w.buf, "%s.class(\"%s\")\n", inner, w.quote(class))
		}
	}

	for _, attr := range tag.Attributes {
		if attr.Name == "id" || attr.Name == "class" {
			continue
		}
		if !attr.HasValue() {
			fmt.Fprintf(&w.buf, "%s.%s()\n", inner, attr.Name)
			continue
		}
		fmt.Fprintf(&w.buf, "%s.%s(\"%s\")\n", inner, w.escapeName(attr.Name), w.quote(*attr.Value))
	}

	for _, child := range tag.Children {
		w.visit(child, indent+1)
	}
}
