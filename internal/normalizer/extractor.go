package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultVariable is the variable the source documents assign their data to.
const DefaultVariable = "gdpData"

// Extractor locates the embedded data literal inside a source document.
type Extractor struct {
	declPattern  *regexp.Regexp
	blockPattern *regexp.Regexp
	fencePattern *regexp.Regexp
}

// NewExtractor creates an extractor looking for assignments to the given variable names.
func NewExtractor(variables ...string) *Extractor {
	if len(variables) == 0 {
		variables = []string{DefaultVariable}
	}

	quoted := make([]string, len(variables))
	for i, v := range variables {
		quoted[i] = regexp.QuoteMeta(v)
	}

	return &Extractor{
		declPattern: regexp.MustCompile(`\b(?:const|let|var)\s+(?:` + strings.Join(quoted, "|") + `)\s*=\s*`),
		// Stricter variants delimit the literal explicitly.
		blockPattern: regexp.MustCompile(`(?s)<!--\s*GDP_DATA_START\s*-->(.*?)<!--\s*GDP_DATA_END\s*-->`),
		fencePattern: regexp.MustCompile("(?s)```(?:js|javascript|json)?[ \t]*\r?\n(.*?)```"),
	}
}

// Locate returns the raw literal text, braces included.
func (e *Extractor) Locate(payload string) (string, error) {
	for _, script := range scriptBodies(payload) {
		if lit, ok := e.fromDeclaration(script); ok {
			return lit, nil
		}
	}

	for _, p := range []*regexp.Regexp{e.blockPattern, e.fencePattern} {
		for _, m := range p.FindAllStringSubmatch(payload, -1) {
			if lit, ok := e.fromDeclaration(m[1]); ok {
				return lit, nil
			}

			if lit, ok := balancedObject(m[1], 0); ok {
				return lit, nil
			}
		}
	}

	// Not HTML, or the declaration sits outside a script element.
	if lit, ok := e.fromDeclaration(payload); ok {
		return lit, nil
	}

	return "", fmt.Errorf("%w: no declaration or data block", ErrNotFound)
}

// fromDeclaration finds the first declaration followed by an object literal.
func (e *Extractor) fromDeclaration(text string) (string, bool) {
	for _, loc := range e.declPattern.FindAllStringIndex(text, -1) {
		rest := strings.TrimLeft(text[loc[1]:], " \t\r\n")
		if !strings.HasPrefix(rest, "{") {
			continue
		}

		start := len(text) - len(rest)
		if lit, ok := balancedObject(text, start); ok {
			return lit, true
		}

		// Unbalanced: hand back the tail so parsing reports it as malformed.
		return text[start:], true
	}

	return "", false
}

// balancedObject returns the brace-balanced object starting at or after from.
// Braces inside quoted strings are ignored.
func balancedObject(text string, from int) (string, bool) {
	start := strings.IndexByte(text[from:], '{')
	if start < 0 {
		return "", false
	}

	start += from
	depth := 0

	var quote byte

	for i := start; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 < len(text) && text[i+1] == '/' {
				if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
					i += nl
				} else {
					i = len(text)
				}
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// scriptBodies returns the text of every <script> element in document order.
func scriptBodies(payload string) []string {
	doc, err := html.Parse(strings.NewReader(payload))
	if err != nil {
		return nil
	}

	var bodies []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			var sb strings.Builder

			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}

			bodies = append(bodies, sb.String())
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return bodies
}
