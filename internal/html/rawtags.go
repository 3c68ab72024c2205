package html

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// startTag is a start tag as written in the source
type startTag struct {
	name      string
	attrs     []string
	valueless map[string]bool
}

// key identifies a start tag by name and lowercased attribute names
func (t startTag) key() string {
	return tagKey(t.name, t.attrs)
}

func tagKey(name string, attrs []string) string {
	sorted := append([]string(nil), attrs...)
	sort.Strings(sorted)
	return strings.ToLower(name) + " " + strings.Join(sorted, " ")
}

// scanStartTags tokenizes the raw input and records, for each start tag,
// which attributes were written without "=". The parsed tree cannot tell
// <input disabled> apart from <input disabled="">.
func scanStartTags(htmlStr string) []startTag {
	var tags []startTag

	z := html.NewTokenizer(strings.NewReader(htmlStr))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tags
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		raw := string(z.Raw())
		name, _ := z.TagName()
		attrs, valueless := scanAttributes(raw)
		tags = append(tags, startTag{
			name:      string(name),
			attrs:     attrs,
			valueless: valueless,
		})
	}
}

// scanAttributes walks the attribute list of a raw start tag. It returns the
// distinct lowercased attribute names and the subset written without a value.
func scanAttributes(raw string) ([]string, map[string]bool) {
	seen := make(map[string]bool)
	var names []string
	var valueless map[string]bool

	i := 1
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	for i < len(raw) {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		// a leading '=' belongs to the name
		start := i
		i++
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && raw[i] != '=' {
			i++
		}
		name := strings.ToLower(raw[start:i])

		j := i
		for j < len(raw) && isSpace(raw[j]) {
			j++
		}
		hasValue := j < len(raw) && raw[j] == '='
		if hasValue {
			i = skipValue(raw, j+1)
		}

		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if !hasValue {
			if valueless == nil {
				valueless = make(map[string]bool)
			}
			valueless[name] = true
		}
	}

	return names, valueless
}

func skipValue(raw string, i int) int {
	for i < len(raw) && isSpace(raw[i]) {
		i++
	}
	if i >= len(raw) {
		return i
	}

	if q := raw[i]; q == '"' || q == '\'' {
		i++
		for i < len(raw) && raw[i] != q {
			i++
		}
		return i + 1
	}

	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// tagMatcher pairs parsed elements with the start tags they came from. Tags
// are paired on name and attribute names, first come first served, so
// elements the tree builder inserted or moved do not disturb the pairing of
// the others.
type tagMatcher struct {
	queues map[string][]startTag
}

func newTagMatcher(tags []startTag) *tagMatcher {
	m := &tagMatcher{queues: make(map[string][]startTag)}
	for _, tag := range tags {
		k := tag.key()
		m.queues[k] = append(m.queues[k], tag)
	}
	return m
}

// match consumes the start tag that produced n. It returns the value-less
// attribute names of that tag, and false when n has no start tag in the
// source.
func (m *tagMatcher) match(n *html.Node) (map[string]bool, bool) {
	attrs := make([]string, 0, len(n.Attr))
	for _, a := range n.Attr {
		attrs = append(attrs, strings.ToLower(attributeName(a)))
	}

	k := tagKey(n.Data, attrs)
	queue := m.queues[k]
	if len(queue) == 0 {
		return nil, false
	}
	m.queues[k] = queue[1:]
	return queue[0].valueless, true
}

// attributeName returns the attribute name as written, namespace included
func attributeName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}
