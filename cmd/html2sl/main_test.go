package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command in an isolated home directory
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	if args == nil {
		// cobra falls back to os.Args on a nil slice
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_ConvertFile(t *testing.T) {
	path := writeFile(t, "in.html", `<div id="a"><p>hi</p></div>`)

	stdout, _, err := run(t, "", path)
	require.NoError(t, err)

	want := strings.Join([]string{
		`    div()`,
		`        .id("a")`,
		`        .child(`,
		`        p()`,
		`            .child("hi")`,
		`        )`,
	}, "\n") + "\n"
	assert.Equal(t, want, stdout)
}

func TestRoot_Stdin(t *testing.T) {
	stdout, _, err := run(t, `<b>x</b>`, "-")
	require.NoError(t, err)
	assert.Equal(t, "    b()\n        .child(\"x\")\n", stdout)

	stdout, _, err = run(t, `<i>y</i>`)
	require.NoError(t, err)
	assert.Equal(t, "    i()\n        .child(\"y\")\n", stdout)
}

func TestRoot_MissingFile(t *testing.T) {
	_, _, err := run(t, "", filepath.Join(t.TempDir(), "nope.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")
}

func TestRoot_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "bad.html", "<p>\xff</p>")

	_, _, err := run(t, "", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestRoot_Flags(t *testing.T) {
	path := writeFile(t, "in.html", `<section><label for="x">L</label><p>a "b"</p></section>`)

	stdout, _, err := run(t, "", "--select", "section > *", "--indent", "2",
		"--escape-prefix", "k_", "--escape-literals", path)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		`  label()`,
		`    .k_for("x")`,
		`    .child("L")`,
		`  )`,
		`  .child(`,
		`  p()`,
		`    .child("a \"b\"")`,
	}, "\n")+"\n", stdout)
}

func TestRoot_Reserved(t *testing.T) {
	stdout, _, err := run(t, `<p for="a" role="b">x</p>`, "--reserved", "role")
	require.NoError(t, err)
	assert.Contains(t, stdout, `.for("a")`)
	assert.Contains(t, stdout, `.r#role("b")`)
}

func TestRoot_EmptyDocument(t *testing.T) {
	stdout, _, err := run(t, `<!-- only -->`)
	require.NoError(t, err)
	assert.Equal(t, "\n", stdout)

	_, _, err = run(t, `<!-- only -->`, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")
}

func TestRoot_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.sl")

	stdout, _, err := run(t, `<hr>`, "-o", out, "-")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "    hr()\n", string(data))
}

func TestRoot_Stats(t *testing.T) {
	_, stderr, err := run(t, `<ul><!-- c --><li>a</li></ul>`, "--stats")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Processing Statistics for <stdin>")
	assert.Contains(t, stderr, "Elements emitted: 2")
	assert.Contains(t, stderr, "Comments dropped: 1")
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, _, err := run(t, `<p>x</p>`, "--indent", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRoot_ConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "html2sl.yaml", "indent_width: 1\nreserved_names: [title]\n")

	stdout, _, err := run(t, `<p title="t">x</p>`, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, " p()\n  .r#title(\"t\")\n  .child(\"x\")\n", stdout)
}

func TestRoot_Env(t *testing.T) {
	t.Setenv("HTML2SL_USE_TABS", "true")

	stdout, _, err := run(t, `<p>x</p>`)
	require.NoError(t, err)
	assert.Equal(t, "\tp()\n\t\t.child(\"x\")\n", stdout)
}

func TestConfigCmd(t *testing.T) {
	stdout, _, err := run(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "indent_width: 4")
	assert.Contains(t, stdout, "escape_prefix: r#")
	assert.Contains(t, stdout, "- async")
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "html2sl dev"))
}
