package transform

import "strings"

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || (c >= '0' && c <= '9') }

func identEnd(src string, i int) int {
	for i < len(src) && isIdentPart(src[i]) {
		i++
	}
	return i
}

// skipSpace skips blanks on the current line.
func skipSpace(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

func skipSpaceNL(src string, i int) int {
	for i < len(src) && (isSpace(src[i]) || src[i] == '\n') {
		i++
	}
	return i
}

// prevNonSpace returns the index of the last non-whitespace byte before i,
// or -1.
func prevNonSpace(src string, i int) int {
	for i--; i >= 0; i-- {
		if !isSpace(src[i]) && src[i] != '\n' {
			return i
		}
	}
	return -1
}

// prevWord returns the identifier ending at end.
func prevWord(src string, end int) string {
	start := end
	for start > 0 && isIdentPart(src[start-1]) {
		start--
	}
	return src[start:end]
}

// currentLine returns the text after the last newline in b.
func currentLine(b []byte) string {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '\n' {
			return string(b[i+1:])
		}
	}
	return string(b)
}

var memberModifiers = map[string]bool{
	"async": true, "static": true, "get": true, "set": true,
	"public": true, "private": true, "protected": true,
	"readonly": true, "override": true, "abstract": true,
}

// atStatementStart reports whether the identifier at i is the first thing
// in a statement or member, modifiers aside.
func atStatementStart(src string, i int) bool {
	p := i
	for {
		for p > 0 && isSpace(src[p-1]) {
			p--
		}
		if p > 0 && src[p-1] == '*' {
			p--
			continue
		}
		start := p
		for start > 0 && isIdentPart(src[start-1]) {
			start--
		}
		if start < p && memberModifiers[src[start:p]] {
			p = start
			continue
		}
		break
	}
	return p == 0 || strings.IndexByte("\n{};,", src[p-1]) >= 0
}

// regexPrefix lists the bytes after which a slash starts a regular
// expression rather than a division. '<' is left out so JSX closing tags
// are not read as regular expressions.
const regexPrefix = "(,=:[!&|?{};+-*%>~^"

var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "case": true, "do": true, "else": true,
	"in": true, "of": true, "yield": true, "await": true, "void": true, "delete": true,
}

// skipLiteral reports whether a string, template, regular expression or
// comment starts at i and returns the index just past it.
func skipLiteral(src string, i int) (int, bool) {
	c := src[i]
	switch {
	case c == '"' || c == '\'':
		for j := i + 1; j < len(src); j++ {
			switch src[j] {
			case '\\':
				j++
			case c:
				return j + 1, true
			case '\n':
				return j, true
			}
		}
		return len(src), true

	case c == '`':
		depth := 0
		for j := i + 1; j < len(src); j++ {
			switch {
			case src[j] == '\\':
				j++
			case depth == 0 && src[j] == '`':
				return j + 1, true
			case src[j] == '$' && j+1 < len(src) && src[j+1] == '{':
				depth++
				j++
			case depth > 0 && src[j] == '{':
				depth++
			case depth > 0 && src[j] == '}':
				depth--
			}
		}
		return len(src), true

	case c == '/' && i+1 < len(src) && src[i+1] == '/':
		if n := strings.IndexByte(src[i:], '\n'); n >= 0 {
			return i + n, true
		}
		return len(src), true

	case c == '/' && i+1 < len(src) && src[i+1] == '*':
		if n := strings.Index(src[i+2:], "*/"); n >= 0 {
			return i + 2 + n + 2, true
		}
		return len(src), true

	case c == '/':
		return skipRegexp(src, i)
	}
	return i, false
}

func skipRegexp(src string, i int) (int, bool) {
	if p := prevNonSpace(src, i); p >= 0 {
		prev := src[p]
		if isIdentPart(prev) {
			if !regexKeywords[prevWord(src, p+1)] {
				return i, false
			}
		} else if strings.IndexByte(regexPrefix, prev) < 0 {
			return i, false
		}
	}

	inClass := false
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return i, false
		case '/':
			if !inClass {
				return identEnd(src, j+1), true
			}
		}
	}
	return i, false
}

var closers = map[byte]byte{'(': ')', '[': ']', '{': '}', '<': '>'}

// matchClose returns the index of the bracket closing the one at i, or -1.
// Angle brackets only count when i itself is '<'.
func matchClose(src string, i int) int {
	open := src[i]
	angles := open == '<'
	depth := 0
	for j := i; j < len(src); {
		if end, ok := skipLiteral(src, j); ok {
			j = end
			continue
		}
		c := src[j]
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '<':
			if angles {
				depth++
			}
		case '>':
			if angles && src[j-1] != '=' {
				depth--
			}
		}
		if depth == 0 {
			if c != closers[open] {
				return -1
			}
			return j
		}
		if depth < 0 {
			return -1
		}
		j++
	}
	return -1
}

// matchOpen returns the index of the bracket opening the one closed at i,
// or -1. It does not look inside literals, so it is meant for type text.
func matchOpen(src string, i int) int {
	depth := 0
	for j := i; j >= 0; j-- {
		switch src[j] {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			depth--
		}
		if depth == 0 {
			return j
		}
	}
	return -1
}

// depthDelta tracks bracket nesting for top-level scans, counting angle
// brackets but not the `>` of an arrow.
func depthDelta(s string, i int) int {
	switch s[i] {
	case '(', '[', '{', '<':
		return 1
	case ')', ']', '}':
		return -1
	case '>':
		if i > 0 && s[i-1] == '=' {
			return 0
		}
		return -1
	}
	return 0
}

// indexTopLevel returns the first index at nesting depth 0 where match
// holds, or -1.
func indexTopLevel(s string, match func(s string, i int) bool) int {
	depth := 0
	for i := 0; i < len(s); {
		if end, ok := skipLiteral(s, i); ok {
			i = end
			continue
		}
		if depth == 0 && match(s, i) {
			return i
		}
		if depth += depthDelta(s, i); depth < 0 {
			depth = 0
		}
		i++
	}
	return -1
}

// splitTopLevel splits s at sep bytes that sit at nesting depth 0.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	for {
		i := indexTopLevel(s, func(s string, i int) bool { return s[i] == sep })
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}
