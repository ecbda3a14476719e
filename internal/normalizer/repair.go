package normalizer

import (
	"errors"
	"strings"
)

// Repair errors.
var (
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrEmptyLiteral       = errors.New("empty literal")
)

// Repair rewrites a near-JSON object literal into strict JSON.
//
// It corrects exactly these deviations and nothing else:
//  1. bare keys (identifiers or integers) before ':' are double-quoted
//  2. single-quoted strings become double-quoted strings
//  3. trailing commas before '}' or ']' are removed
//  4. '//' line comments outside strings are dropped
//
// Text inside string literals is never rewritten. Any other syntax error is
// left in place for the JSON parser to reject.
func Repair(literal string) (string, error) {
	src := strings.TrimSpace(literal)
	if src == "" {
		return "", ErrEmptyLiteral
	}

	var out strings.Builder
	out.Grow(len(src) + len(src)/4)

	var lastSig byte

	emit := func(s string) {
		out.WriteString(s)

		if t := strings.TrimRight(s, " \t\r\n"); t != "" {
			lastSig = t[len(t)-1]
		}
	}

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case c == '"':
			end, ok := scanString(src, i, '"')
			if !ok {
				return "", ErrUnterminatedString
			}

			emit(src[i:end])
			i = end

		case c == '\'':
			end, ok := scanString(src, i, '\'')
			if !ok {
				return "", ErrUnterminatedString
			}

			emit(requote(src[i+1 : end-1]))
			i = end

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			i = skipLine(src, i)

		case c == ',':
			next := skipSpace(src, i+1)
			if next < len(src) && (src[next] == '}' || src[next] == ']') {
				i = next

				continue
			}

			emit(",")
			i++

		case isIdentStart(c) || isDigit(c):
			end := i
			for end < len(src) && isIdentPart(src[end]) {
				end++
			}

			token := src[i:end]
			next := skipSpace(src, end)

			if next < len(src) && src[next] == ':' && (lastSig == '{' || lastSig == ',') {
				emit(`"` + token + `"`)
			} else {
				emit(token)
			}

			i = end

		default:
			emit(src[i : i+1])
			i++
		}
	}

	return out.String(), nil
}

// scanString returns the index just past the closing quote of the string starting at start.
func scanString(src string, start int, quote byte) (int, bool) {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		case '\n':
			return 0, false
		}
	}

	return 0, false
}

// requote turns the body of a single-quoted string into a double-quoted JSON string.
func requote(body string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for i := 0; i < len(body); i++ {
		c := body[i]

		switch {
		case c == '\\' && i+1 < len(body) && body[i+1] == '\'':
			sb.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(body):
			sb.WriteByte(c)
			sb.WriteByte(body[i+1])
			i++
		case c == '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(c)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// skipSpace returns the next index that is neither whitespace nor inside a line comment.
func skipSpace(src string, i int) int {
	for i < len(src) {
		switch {
		case src[i] == ' ' || src[i] == '\t' || src[i] == '\r' || src[i] == '\n':
			i++
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/':
			i = skipLine(src, i)
		default:
			return i
		}
	}

	return i
}

func skipLine(src string, i int) int {
	if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl
	}

	return len(src)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
