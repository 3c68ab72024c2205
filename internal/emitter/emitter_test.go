package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"html2sl/internal/html"
)

func parse(t *testing.T, src string) html.Document {
	t.Helper()
	doc, err := html.NewParser().Parse(src)
	require.NoError(t, err)
	return doc
}

func lines(s ...string) string {
	return strings.Join(s, "\n")
}

func TestEmit_NestedElements(t *testing.T) {
	out := New(DefaultOptions()).Emit(parse(t, `<div id="a"><p>hi</p></div>`))

	want := lines(
		`    div()`,
		`        .id("a")`,
		`        .child(`,
		`        p()`,
		`            .child("hi")`,
		`        )`,
	)
	assert.Equal(t, want, out)
}

func TestEmit_AttributeOrder(t *testing.T) {
	out := New(DefaultOptions()).Emit(parse(t, `<section><span data-y="z" class="a b" id="x"></span></section>`))

	want := lines(
		`    section()`,
		`        .child(`,
		`        span()`,
		`            .id("x")`,
		`            .class("a")`,
		`            .class("b")`,
		`            .data-y("z")`,
		`        )`,
	)
	assert.Equal(t, want, out)
}

func TestEmit_ReservedNames(t *testing.T) {
	out := New(DefaultOptions()).Emit(parse(t,
		`<form><label for="n">N</label><input type="text" name="n"><script async src="a.js"></script><script async="true"></script></form>`))

	assert.Contains(t, out, `.r#for("n")`)
	assert.Contains(t, out, `.r#type("text")`)
	assert.Contains(t, out, `.name("n")`)
	assert.Contains(t, out, `.r#async("true")`)

	// value-less attributes are never escaped
	assert.Contains(t, out, `            .async()`)
	assert.NotContains(t, out, `.type("text")`+"\n")
}

func TestEmit_CustomEscapeTable(t *testing.T) {
	opts := DefaultOptions()
	opts.Escapes = EscapeTable("_", []string{"class", "style"})

	out := New(opts).Emit(parse(t, `<div><p style="x" type="t">a</p></div>`))
	assert.Contains(t, out, `._style("x")`)
	assert.Contains(t, out, `.type("t")`)
}

func TestEmit_ValuelessAttributes(t *testing.T) {
	out := New(DefaultOptions()).Emit(parse(t, `<div><input disabled value=""></div>`))

	assert.Contains(t, out, "            .disabled()\n")
	assert.Contains(t, out, `            .value("")`)
}

func TestEmit_Comments(t *testing.T) {
	withComment := New(DefaultOptions()).Emit(parse(t, `<div><!-- a --><p>x</p><!-- b --></div>`))
	without := New(DefaultOptions()).Emit(parse(t, `<div><p>x</p></div>`))

	assert.Equal(t, without, withComment)
	assert.NotContains(t, withComment, "<!--")
}

func TestEmit_TextTrimming(t *testing.T) {
	doc := html.NewDocument(
		[]html.Node{
			html.NewElement("div", nil, 1, 2, 3),
			html.NewText("   \n  "),
			html.NewText("  hello  "),
			html.NewText("\t"),
		},
		[]html.NodeRef{0},
	)

	out, stats, err := New(DefaultOptions()).EmitWithStats(doc)
	require.NoError(t, err)

	assert.Equal(t, lines(
		`    div()`,
		`        .child("hello")`,
	), out)
	assert.Equal(t, 1, stats.TextNodesEmitted)
	assert.Equal(t, 2, stats.BlankTextDropped)
	assert.Equal(t, 1, stats.ElementsEmitted)
	assert.Equal(t, 2, stats.LinesWritten)
}

func TestEmit_UnresolvedReference(t *testing.T) {
	doc := html.NewDocument(
		[]html.Node{
			html.NewElement("ul", nil, 1, 42, html.InvalidRef),
			html.NewElement("li", nil),
		},
		[]html.NodeRef{0, 99},
	)

	out, stats, err := New(DefaultOptions()).EmitWithStats(doc)
	require.NoError(t, err)

	assert.Equal(t, lines(
		`    ul()`,
		`        .child(`,
		`        li()`,
		`        )`,
	), out)
	assert.Equal(t, 3, stats.UnresolvedSkipped)
}

func TestEmit_MultipleTopLevelNodes(t *testing.T) {
	out := New(DefaultOptions()).Emit(parse(t, `<p>a</p><p>b</p>`))

	// only the outermost wrapper lines are stripped
	want := lines(
		`    p()`,
		`        .child("a")`,
		`    )`,
		`    .child(`,
		`    p()`,
		`        .child("b")`,
	)
	assert.Equal(t, want, out)
}

func TestEmit_EmptyDocument(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"comment only", `<!-- nothing -->`},
		{"empty", ``},
		{"whitespace", "  \n\t "},
		{"single text node", `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(DefaultOptions())
			doc := parse(t, tt.src)

			assert.NotPanics(t, func() {
				assert.Equal(t, "", e.Emit(doc))
			})

			_, err := e.EmitStrict(doc)
			assert.ErrorIs(t, err, ErrEmptyDocument)
		})
	}
}

func TestEmit_StrictOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Strict = true
	e := New(opts)

	_, _, err := e.EmitWithStats(parse(t, `<!-- c -->`))
	assert.ErrorIs(t, err, ErrEmptyDocument)

	out, _, err := e.EmitWithStats(parse(t, `<b>x</b>`))
	require.NoError(t, err)
	assert.Equal(t, lines(`    b()`, `        .child("x")`), out)
}

func TestEmit_NoBlankLines(t *testing.T) {
	src := "<ul>\n\n  <li class=\"  a  \">one</li>\n\n  <li>two</li>\n</ul>\n"
	out := New(DefaultOptions()).Emit(parse(t, src))

	require.NotEmpty(t, out)
	for _, line := range strings.Split(out, "\n") {
		assert.NotEmpty(t, strings.TrimSpace(line))
	}
	assert.False(t, strings.HasPrefix(out, "    .child(\n"))
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestEmit_Indent(t *testing.T) {
	opts := DefaultOptions()
	opts.Indent = "\t"

	out := New(opts).Emit(parse(t, `<i id="q">x</i>`))
	assert.Equal(t, lines("\ti()", "\t\t.id(\"q\")", "\t\t.child(\"x\")"), out)
}

func TestEmit_Literals(t *testing.T) {
	src := `<p title="say &quot;hi&quot;">a\b</p>`

	verbatim := New(DefaultOptions()).Emit(parse(t, src))
	assert.Contains(t, verbatim, `.title("say "hi"")`)
	assert.Contains(t, verbatim, `.child("a\b")`)

	opts := DefaultOptions()
	opts.EscapeLiterals = true
	escaped := New(opts).Emit(parse(t, src))
	assert.Contains(t, escaped, `.title("say \"hi\"")`)
	assert.Contains(t, escaped, `.child("a\\b")`)
}

func TestEmit_ConcurrentUse(t *testing.T) {
	e := New(DefaultOptions())
	doc := parse(t, `<div id="a"><p>hi</p></div>`)
	want := e.Emit(doc)

	done := make(chan string)
	for i := 0; i < 8; i++ {
		go func() { done <- e.Emit(doc) }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
