package transform

import (
	"regexp"
	"strings"
)

// Regex strips types by rewriting the source text. It covers the syntax
// found in small utility modules (interfaces, type aliases, type-only
// imports, generics, parameter and return annotations, variable
// annotations, casts and non-null assertions) and leaves everything else
// untouched, comments and blank lines included. Enums, parameter
// properties and class field annotations are not handled.
type Regex struct{}

func (Regex) Name() string { return "regex" }

func (Regex) Strip(code string, _ Options) (string, error) {
	out := stripTypeImports(code)
	out = stripDeclarations(out)
	out = stripAnnotations(out)
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimLeft(out, "\n"), nil
}

var (
	blankRuns = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

	// Statements that exist only at type level: interfaces, type aliases,
	// ambient declarations, `import type` and `export type {...}`.
	typeOnlyStart = regexp.MustCompile(`(?m)^[ \t]*(?:export[ \t]+)?(?:declare\s+|interface\s+[\w$]+|type\s+[\w$]+\s*[<=]|type\s*\{|import\s+type\s)`)

	// import Default, { a, type B } from 'x';
	importListClause = regexp.MustCompile(`(?m)^([ \t]*import\s*)([\w$]+\s*,\s*)?\{([^}]*)\}(\s*from\s*['"][^'"\n]+['"][ \t]*;?)[ \t]*\r?\n?`)
	typeSpecifier    = regexp.MustCompile(`^type\s+[\w$]+`)
)

// stripTypeImports removes `type X` specifiers from import lists. An import
// left with nothing to bind is dropped.
func stripTypeImports(src string) string {
	return importListClause.ReplaceAllStringFunc(src, func(stmt string) string {
		m := importListClause.FindStringSubmatch(stmt)
		head, def, list, from := m[1], m[2], m[3], m[4]

		var kept []string
		removed := false
		for _, spec := range strings.Split(list, ",") {
			spec = strings.TrimSpace(spec)
			switch {
			case spec == "":
			case typeSpecifier.MatchString(spec) && !strings.HasPrefix(spec, "type as "):
				removed = true
			default:
				kept = append(kept, spec)
			}
		}
		if !removed {
			return stmt
		}

		newline := ""
		if strings.HasSuffix(stmt, "\n") {
			newline = "\n"
		}
		switch {
		case len(kept) > 0:
			return head + def + "{ " + strings.Join(kept, ", ") + " }" + from + newline
		case def != "":
			return head + strings.TrimRight(strings.TrimSpace(def), ",") + from + newline
		default:
			return ""
		}
	})
}

func stripDeclarations(src string) string {
	var b strings.Builder
	for {
		loc := typeOnlyStart.FindStringIndex(src)
		if loc == nil {
			b.WriteString(src)
			return b.String()
		}
		start := loc[0]
		header := src[loc[0]:loc[1]]
		blocky := strings.Contains(header, "interface") || strings.Contains(header, "declare")
		end := typeStatementEnd(src, start, blocky)

		b.WriteString(src[:start])
		src = src[end:]
	}
}

// typeStatementEnd returns the index just past the statement starting at i,
// including its terminating newline. A block statement (interface, declare
// module) ends at its closing brace.
func typeStatementEnd(src string, i int, blocky bool) int {
	depth := 0
	for j := i; j < len(src); {
		if end, ok := skipLiteral(src, j); ok {
			j = end
			continue
		}
		switch c := src[j]; c {
		case '(', '[', '{', '<':
			depth++
		case '>':
			if src[j-1] != '=' && depth > 0 {
				depth--
			}
		case ')', ']':
			depth--
		case '}':
			depth--
			if depth == 0 && blocky {
				k := skipSpace(src, j+1)
				if k < len(src) && src[k] == ';' {
					return lineEnd(src, k+1)
				}
				return lineEnd(src, j+1)
			}
		case ';':
			if depth <= 0 {
				return lineEnd(src, j+1)
			}
		case '\n':
			if depth <= 0 && !continues(src, i, j) {
				return j + 1
			}
		}
		j++
	}
	return len(src)
}

// continues reports whether a type-level statement that started at start
// carries on past the newline at nl.
func continues(src string, start, nl int) bool {
	prev := strings.TrimRight(src[start:nl], " \t\r")
	if prev != "" && strings.ContainsRune("=|&,(<{:?", rune(prev[len(prev)-1])) {
		return true
	}
	next := strings.TrimLeft(src[nl+1:], " \t\r\n")
	return next != "" && (next[0] == '|' || next[0] == '&')
}

// lineEnd extends i over trailing blanks and one newline.
func lineEnd(src string, i int) int {
	j := skipSpace(src, i)
	if j < len(src) && src[j] == '\r' {
		j++
	}
	if j < len(src) && src[j] == '\n' {
		return j + 1
	}
	if j >= len(src) {
		return j
	}
	return i
}
