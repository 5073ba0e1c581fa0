package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// Function is one top-level function cut out of a module by Split.
type Function struct {
	Name string
	// Code is a standalone module: the imports the function uses, the
	// top-level declarations it needs, then the function itself with its
	// leading comments and overload signatures.
	Code         string
	Description  string   // first line of the doc comment, if any
	Dependencies []string // sibling functions it refers to, in file order
}

// Split cuts every top-level function of a module into its own module.
// Function declarations and const/let/var bindings initialized with a
// function expression or an arrow function are recognized. Imports are
// narrowed to the names each piece uses, other top-level declarations it
// refers to are copied along, and references to sibling functions become
// relative imports. Functions come back in file order.
func Split(code string) ([]Function, error) {
	m, err := scanModule(code)
	if err != nil {
		return nil, err
	}

	out := make([]Function, 0, len(m.functions))
	for _, f := range m.functions {
		text := m.text(f)
		used := identifiers(text)

		included := make([]bool, len(m.shared))
		for changed := true; changed; {
			changed = false
			for i, s := range m.shared {
				if included[i] || !used[s.name] {
					continue
				}
				included[i] = true
				changed = true
				collectIdentifiers(m.src[s.start:s.end], used)
			}
		}

		var deps []string
		for _, g := range m.functions {
			if g.name != f.name && used[g.name] {
				deps = append(deps, g.name)
			}
		}

		var b strings.Builder
		for _, imp := range m.imports {
			if line := imp.render(used); line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
		for _, d := range deps {
			fmt.Fprintf(&b, "import { %s } from './%s';\n", d, d)
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		for i, s := range m.shared {
			if included[i] {
				b.WriteString(m.src[s.start:s.end])
				b.WriteString("\n\n")
			}
		}
		b.WriteString(text)
		b.WriteByte('\n')

		out = append(out, Function{
			Name:         f.name,
			Code:         b.String(),
			Description:  docSummary(m.src[f.start:f.decls[0]]),
			Dependencies: deps,
		})
	}
	return out, nil
}

// chunk is a top-level declaration with its leading comments.
type chunk struct {
	name  string
	start int   // first byte of the leading comments
	decls []int // where each declaration (overload or body) begins
	end   int
}

type module struct {
	src       string
	imports   []importDecl
	shared    []chunk
	functions []chunk
}

// text returns the chunk's source, exporting every declaration in it so
// that siblings can import it.
func (m *module) text(c chunk) string {
	var b strings.Builder
	from := c.start
	for _, d := range c.decls {
		b.WriteString(m.src[from:d])
		if !strings.HasPrefix(m.src[d:], "export") {
			b.WriteString("export ")
		}
		from = d
	}
	b.WriteString(m.src[from:c.end])
	return b.String()
}

type itemKind int

const (
	itemImport itemKind = iota
	itemFunction
	itemSignature
	itemShared
)

type item struct {
	kind  itemKind
	name  string
	start int
	end   int
}

func scanModule(src string) (*module, error) {
	m := &module{src: src}
	overloads := make(map[string]*chunk)
	seen := make(map[string]bool)

	depth, prevEnd := 0, 0
	for i := 0; i < len(src); {
		if end, ok := skipLiteral(src, i); ok {
			i = end
			continue
		}
		c := src[i]
		if depth == 0 && (i == 0 || src[i-1] == '\n') && isIdentStart(c) {
			it, ok, err := parseTopLevel(src, i)
			if err != nil {
				return nil, err
			}
			if ok {
				start := max(leadingComments(src, i), prevEnd)
				switch it.kind {
				case itemImport:
					if imp, ok := parseImport(src[it.start:it.end]); ok {
						m.imports = append(m.imports, imp)
					}
				case itemShared:
					m.shared = append(m.shared, chunk{name: it.name, start: start, end: it.end})
				case itemSignature:
					if o := overloads[it.name]; o != nil {
						o.decls = append(o.decls, it.start)
					} else {
						overloads[it.name] = &chunk{name: it.name, start: start, decls: []int{it.start}}
					}
				case itemFunction:
					if seen[it.name] {
						return nil, fmt.Errorf("line %d: function %s is declared twice", lineOf(src, it.start), it.name)
					}
					seen[it.name] = true
					f := chunk{name: it.name, start: start}
					if o := overloads[it.name]; o != nil {
						f.start, f.decls = o.start, o.decls
						delete(overloads, it.name)
					}
					f.decls = append(f.decls, it.start)
					f.end = it.end
					m.functions = append(m.functions, f)
				}
				i, prevEnd = it.end, it.end
				continue
			}
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
		i++
	}
	return m, nil
}

// parseTopLevel recognizes the statement starting at i.
func parseTopLevel(src string, i int) (item, bool, error) {
	k := i
	for {
		j := identEnd(src, k)
		if !declarationModifiers[src[k:j]] {
			break
		}
		n := skipSpace(src, j)
		if n >= len(src) || !isIdentStart(src[n]) {
			return item{}, false, nil
		}
		k = n
	}

	j := identEnd(src, k)
	switch src[k:j] {
	case "import":
		if n := skipSpace(src, j); k != i || n >= len(src) || src[n] == '(' || src[n] == '.' {
			return item{}, false, nil
		}
		end := statementEnd(src, i)
		if end < len(src) && src[end] == ';' {
			end++
		}
		return item{kind: itemImport, start: i, end: end}, true, nil
	case "function":
		return parseFunction(src, i, j)
	case "const", "let", "var":
		return parseBinding(src, i, j)
	case "interface", "type", "enum", "class":
		n := skipSpace(src, j)
		if n >= len(src) || !isIdentStart(src[n]) {
			return item{}, false, nil
		}
		name := src[n:identEnd(src, n)]
		return item{kind: itemShared, name: name, start: i, end: declarationEnd(src, n)}, true, nil
	}
	return item{}, false, nil
}

func parseFunction(src string, i, j int) (item, bool, error) {
	k := skipSpace(src, j)
	if k < len(src) && src[k] == '*' {
		k = skipSpace(src, k+1)
	}
	if k >= len(src) || !isIdentStart(src[k]) {
		return item{}, false, nil
	}
	n := identEnd(src, k)
	name := src[k:n]
	end, signature, err := functionRest(src, n, name)
	if err != nil {
		return item{}, false, err
	}
	kind := itemFunction
	if signature {
		kind = itemSignature
	}
	return item{kind: kind, name: name, start: i, end: end}, true, nil
}

// functionRest reads type parameters, parameters, return type and body
// from k. A function without a body is an overload signature.
func functionRest(src string, k int, name string) (end int, signature bool, err error) {
	k = skipSpace(src, k)
	if k < len(src) && src[k] == '<' {
		close := matchClose(src, k)
		if close < 0 {
			return 0, false, unbalanced(src, k, name)
		}
		k = skipSpace(src, close+1)
	}
	if k >= len(src) || src[k] != '(' {
		return 0, false, fmt.Errorf("line %d: %s has no parameter list", lineOf(src, k), name)
	}
	close := matchClose(src, k)
	if close < 0 {
		return 0, false, unbalanced(src, k, name)
	}
	k = skipSpace(src, close+1)
	if k < len(src) && src[k] == ':' {
		k = skipType(src, k+1, returnStop)
	}
	if b := skipSpaceNL(src, k); b < len(src) && src[b] == '{' {
		close := matchClose(src, b)
		if close < 0 {
			return 0, false, unbalanced(src, b, name)
		}
		return close + 1, false, nil
	}
	e := skipSpace(src, k)
	if e < len(src) && src[e] == ';' {
		e++
	}
	return e, true, nil
}

// parseBinding handles const/let/var. Bindings to a function become
// functions; anything else is a shared declaration.
func parseBinding(src string, i, j int) (item, bool, error) {
	k := skipSpace(src, j)
	if k >= len(src) || !isIdentStart(src[k]) {
		return item{}, false, nil
	}
	n := identEnd(src, k)
	name := src[k:n]
	shared := item{kind: itemShared, name: name, start: i, end: declarationEnd(src, n)}

	m := n
	if m < len(src) && src[m] == '!' {
		m++
	}
	m = skipSpace(src, m)
	if m < len(src) && src[m] == ':' {
		m = skipType(src, m+1, declStop)
	}
	if m >= len(src) || !isAssign(src, m) {
		return shared, true, nil
	}
	v := skipSpaceNL(src, m+1)
	if hasWord(src, v, "async") {
		v = skipSpace(src, v+len("async"))
	}
	end, ok, err := functionValue(src, v, name)
	if err != nil {
		return item{}, false, err
	}
	if !ok {
		return shared, true, nil
	}
	if e := skipSpace(src, end); e < len(src) && src[e] == ';' {
		end = e + 1
	}
	return item{kind: itemFunction, name: name, start: i, end: end}, true, nil
}

// functionValue reports whether a function expression or arrow function
// starts at v and returns where it ends.
func functionValue(src string, v int, name string) (int, bool, error) {
	if hasWord(src, v, "function") {
		k := skipSpace(src, v+len("function"))
		if k < len(src) && src[k] == '*' {
			k = skipSpace(src, k+1)
		}
		if k < len(src) && isIdentStart(src[k]) {
			k = identEnd(src, k)
		}
		end, signature, err := functionRest(src, k, name)
		if err != nil || signature {
			return 0, false, err
		}
		return end, true, nil
	}

	k := v
	if k < len(src) && src[k] == '<' {
		close := matchClose(src, k)
		if close < 0 {
			return 0, false, nil
		}
		k = skipSpace(src, close+1)
	}
	switch {
	case k < len(src) && src[k] == '(':
		if !isArrowAt(src, k) {
			return 0, false, nil
		}
		k = skipSpaceNL(src, matchClose(src, k)+1)
		if k < len(src) && src[k] == ':' {
			k = skipType(src, k+1, returnStop)
		}
	case k < len(src) && isIdentStart(src[k]):
		k = skipSpace(src, identEnd(src, k))
	default:
		return 0, false, nil
	}
	if !strings.HasPrefix(src[k:], "=>") {
		return 0, false, nil
	}

	body := skipSpaceNL(src, k+2)
	if body < len(src) && src[body] == '{' {
		close := matchClose(src, body)
		if close < 0 {
			return 0, false, unbalanced(src, body, name)
		}
		return close + 1, true, nil
	}
	return expressionEnd(src, body), true, nil
}

func hasWord(src string, i int, w string) bool {
	return strings.HasPrefix(src[i:], w) && (i+len(w) >= len(src) || !isIdentPart(src[i+len(w)]))
}

// expressionEnd returns where the expression at i ends: at a semicolon at
// nesting depth 0, or at a line break not followed by an indented or
// `.`-led continuation line.
func expressionEnd(src string, i int) int {
	depth := 0
	for j := i; j < len(src); {
		if end, ok := skipLiteral(src, j); ok {
			j = end
			continue
		}
		switch src[j] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return j
			}
			depth--
		case ';':
			if depth == 0 {
				return j
			}
		case '\n':
			if n := j + 1; depth == 0 && (n >= len(src) || !(isSpace(src[n]) || src[n] == '.')) {
				return j
			}
		}
		j++
	}
	return len(src)
}

// declarationEnd returns the end of a non-function declaration, its
// semicolon included.
func declarationEnd(src string, i int) int {
	end := expressionEnd(src, i)
	if end < len(src) && src[end] == ';' {
		end++
	}
	return end
}

// leadingComments returns the start of the comment lines directly above
// the line starting at i, or i when there are none.
func leadingComments(src string, i int) int {
	for i > 0 {
		nl := i - 1
		lineStart := strings.LastIndexByte(src[:nl], '\n') + 1
		line := strings.TrimSpace(src[lineStart:nl])
		switch {
		case strings.HasPrefix(line, "//"):
			i = lineStart
		case strings.HasSuffix(line, "*/"):
			open := strings.LastIndex(src[:nl], "/*")
			if open < 0 {
				return i
			}
			ls := strings.LastIndexByte(src[:open], '\n') + 1
			if strings.TrimSpace(src[ls:open]) != "" {
				return i
			}
			i = ls
		default:
			return i
		}
	}
	return i
}

// docSummary returns the first line of prose in a comment block.
func docSummary(comments string) string {
	for _, line := range strings.Split(comments, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line != "" && !strings.HasPrefix(line, "@") {
			return strings.TrimSuffix(line, ".")
		}
	}
	return ""
}

func identifiers(code string) map[string]bool {
	ids := make(map[string]bool)
	collectIdentifiers(code, ids)
	return ids
}

// collectIdentifiers adds every identifier referenced in code to ids.
// Property names after a dot do not count; template substitutions do.
func collectIdentifiers(code string, ids map[string]bool) {
	for i := 0; i < len(code); {
		if end, ok := skipLiteral(code, i); ok {
			if code[i] == '`' {
				for _, expr := range templateExprs(code[i:end]) {
					collectIdentifiers(expr, ids)
				}
			}
			i = end
			continue
		}
		if isIdentStart(code[i]) && (i == 0 || !isIdentPart(code[i-1])) {
			j := identEnd(code, i)
			if p := prevNonSpace(code, i); p < 0 || code[p] != '.' || (p > 0 && code[p-1] == '.') {
				ids[code[i:j]] = true
			}
			i = j
			continue
		}
		i++
	}
}

// templateExprs returns the ${...} substitutions of a template literal.
func templateExprs(lit string) []string {
	var exprs []string
	for i := 1; i < len(lit); i++ {
		switch {
		case lit[i] == '\\':
			i++
		case lit[i] == '$' && i+1 < len(lit) && lit[i+1] == '{':
			close := matchClose(lit, i+1)
			if close < 0 {
				return exprs
			}
			exprs = append(exprs, lit[i+2:close])
			i = close
		}
	}
	return exprs
}

var importClause = regexp.MustCompile(`(?s)^import\s+(type\s+)?(.*?)\s*from\s*(['"][^'"]*['"])`)

type importSpec struct {
	text  string // as written, e.g. "type A" or "a as b"
	local string
}

// importDecl is an import statement broken into its bindings.
type importDecl struct {
	typeOnly bool
	def      string
	ns       string
	named    []importSpec
	from     string // module specifier, quotes included
}

// parseImport splits an import statement. Side-effect imports have no
// bindings and are not reported.
func parseImport(stmt string) (importDecl, bool) {
	m := importClause.FindStringSubmatch(stmt)
	if m == nil {
		return importDecl{}, false
	}
	d := importDecl{typeOnly: m[1] != "", from: m[3]}
	clause := strings.TrimSpace(m[2])
	if open := strings.IndexByte(clause, '{'); open >= 0 {
		close := strings.LastIndexByte(clause, '}')
		if close < open {
			return importDecl{}, false
		}
		for _, spec := range strings.Split(clause[open+1:close], ",") {
			f := strings.Fields(spec)
			if len(f) == 0 {
				continue
			}
			d.named = append(d.named, importSpec{text: strings.Join(f, " "), local: f[len(f)-1]})
		}
		clause = clause[:open] + clause[close+1:]
	}
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "*"):
			f := strings.Fields(part)
			d.ns = f[len(f)-1]
		default:
			d.def = part
		}
	}
	return d, true
}

// render rewrites the import keeping only the bindings in used, or returns
// "" when none is.
func (d importDecl) render(used map[string]bool) string {
	var parts []string
	if d.def != "" && used[d.def] {
		parts = append(parts, d.def)
	}
	if d.ns != "" && used[d.ns] {
		parts = append(parts, "* as "+d.ns)
	}
	var named []string
	for _, s := range d.named {
		if used[s.local] {
			named = append(named, s.text)
		}
	}
	if len(named) > 0 {
		parts = append(parts, "{ "+strings.Join(named, ", ")+" }")
	}
	if len(parts) == 0 {
		return ""
	}
	kw := "import "
	if d.typeOnly {
		kw = "import type "
	}
	return kw + strings.Join(parts, ", ") + " from " + d.from + ";"
}

func lineOf(src string, i int) int {
	return strings.Count(src[:min(i, len(src))], "\n") + 1
}

func unbalanced(src string, i int, name string) error {
	return fmt.Errorf("line %d: unbalanced brackets in %s", lineOf(src, i), name)
}
