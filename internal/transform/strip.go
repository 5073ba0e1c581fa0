package transform

import "strings"

// stripAnnotations removes inline type syntax from runtime code. It walks
// the source once, copying string literals, template literals and comments
// verbatim.
func stripAnnotations(src string) string {
	s := &stripper{src: src, out: make([]byte, 0, len(src))}
	s.run()
	return string(s.out)
}

type stripper struct {
	src string
	out []byte
}

func (s *stripper) run() {
	src := s.src
	for i := 0; i < len(src); {
		if end, ok := skipLiteral(src, i); ok {
			s.copy(i, end)
			i = end
			continue
		}
		c := src[i]
		switch {
		case isIdentStart(c) && (i == 0 || !isIdentPart(src[i-1])):
			i = s.word(i)
		case c == '(' && s.arrowParams(i):
			i = s.params(i)
		case c == '<' && s.arrowGenerics(i):
			i = matchClose(src, i) + 1
		case c == '<' && s.typeArguments(i):
			i = matchClose(src, i) + 1
		case c == '!' && s.nonNull(i):
			i++
		default:
			s.out = append(s.out, c)
			i++
		}
	}
}

func (s *stripper) copy(from, to int) {
	s.out = append(s.out, s.src[from:to]...)
}

// trimOut drops trailing blanks already written.
func (s *stripper) trimOut() {
	for len(s.out) > 0 && (s.out[len(s.out)-1] == ' ' || s.out[len(s.out)-1] == '\t') {
		s.out = s.out[:len(s.out)-1]
	}
}

var notMethods = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "return": true,
	"typeof": true, "new": true, "await": true, "yield": true, "super": true,
	"do": true, "else": true, "with": true, "throw": true, "void": true,
	"delete": true, "in": true, "of": true, "instanceof": true, "case": true,
}

func (s *stripper) word(i int) int {
	src := s.src
	j := identEnd(src, i)
	w := src[i:j]

	// Property names are never keywords.
	if p := prevNonSpace(src, i); p >= 0 && src[p] == '.' && (p == 0 || src[p-1] != '.') {
		s.copy(i, j)
		return j
	}

	switch w {
	case "import":
		if k := skipSpace(src, j); k < len(src) && src[k] != '(' && src[k] != '.' {
			return s.copyStatement(i)
		}
	case "export":
		if k := skipSpace(src, j); k < len(src) && (src[k] == '{' || src[k] == '*') {
			return s.copyStatement(i)
		}
	case "function":
		return s.function(i, j)
	case "const", "let", "var":
		return s.declaration(i, j)
	case "class":
		return s.class(i, j)
	case "as", "satisfies":
		if s.castContext(i, j) {
			return s.cast(j)
		}
	case "catch":
		if k := skipSpace(src, j); k < len(src) && src[k] == '(' {
			s.copy(i, k)
			return s.params(k)
		}
	default:
		if !notMethods[w] {
			if k := s.method(i, j); k >= 0 {
				return k
			}
		}
	}
	s.copy(i, j)
	return j
}

// copyStatement copies an import or re-export verbatim so that `as`
// renames inside it survive.
func (s *stripper) copyStatement(i int) int {
	j := statementEnd(s.src, i)
	s.copy(i, j)
	return j
}

// statementEnd returns where the import or export statement at i ends: at
// its semicolon or at the end of its line, braces aside.
func statementEnd(src string, i int) int {
	depth := 0
	j := i
	for j < len(src) {
		if end, ok := skipLiteral(src, j); ok {
			j = end
			if depth == 0 && strings.HasPrefix(strings.TrimLeft(src[j:], " \t"), "\n") {
				break
			}
			continue
		}
		c := src[j]
		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
		} else if depth == 0 && (c == ';' || c == '\n') {
			break
		}
		j++
	}
	return j
}

func (s *stripper) function(i, j int) int {
	src := s.src
	before := len(s.out)
	s.copy(i, j)

	k := skipSpace(src, j)
	if k < len(src) && src[k] == '*' {
		k = skipSpace(src, k+1)
	}
	if k < len(src) && isIdentStart(src[k]) {
		k = identEnd(src, k)
	}
	s.copy(j, k)

	k2 := skipSpace(src, k)
	if k2 < len(src) && src[k2] == '<' {
		if end := matchClose(src, k2); end > 0 {
			k = end + 1
			k2 = skipSpace(src, k)
		}
	}
	if k2 >= len(src) || src[k2] != '(' {
		return k
	}
	s.copy(k, k2)
	next := s.params(k2)

	// An overload signature has no body: drop the whole statement.
	if b := skipSpaceNL(src, next); b >= len(src) || src[b] != '{' {
		line := len(s.out[:before]) - len(currentLine(s.out[:before]))
		if onlyModifiers(string(s.out[line:before])) {
			s.out = s.out[:line]
			e := skipSpace(src, next)
			if e < len(src) && src[e] == ';' {
				e++
			}
			return lineEnd(src, e)
		}
	}
	return next
}

var declarationModifiers = map[string]bool{"export": true, "default": true, "declare": true, "async": true}

func onlyModifiers(prefix string) bool {
	for _, w := range strings.Fields(prefix) {
		if !declarationModifiers[w] {
			return false
		}
	}
	return true
}

// params rewrites the parenthesized parameter list at i and any return type
// after it.
func (s *stripper) params(i int) int {
	src := s.src
	end := matchClose(src, i)
	if end < 0 {
		s.out = append(s.out, '(')
		return i + 1
	}
	s.out = append(s.out, '(')
	s.out = append(s.out, stripParamList(src[i+1:end])...)
	s.out = append(s.out, ')')
	return s.returnType(end + 1)
}

func (s *stripper) returnType(k int) int {
	src := s.src
	j := skipSpace(src, k)
	if j >= len(src) || src[j] != ':' {
		return k
	}
	end := skipType(src, j+1, returnStop)
	for end > j+1 && isSpace(src[end-1]) {
		end--
	}
	return end
}

func (s *stripper) declaration(i, j int) int {
	src := s.src
	s.copy(i, j)
	k := skipSpace(src, j)

	var nameEnd int
	switch {
	case k < len(src) && isIdentStart(src[k]):
		nameEnd = identEnd(src, k)
	case k < len(src) && (src[k] == '{' || src[k] == '['):
		close := matchClose(src, k)
		if close < 0 {
			return j
		}
		nameEnd = close + 1
	default:
		return j
	}

	m := nameEnd
	if m < len(src) && src[m] == '!' {
		m++
	}
	m = skipSpace(src, m)
	if m >= len(src) || src[m] != ':' {
		return j
	}

	// Destructuring patterns hold no types: copy the name as is.
	s.copy(j, nameEnd)
	end := skipType(src, m+1, declStop)
	for end > m+1 && isSpace(src[end-1]) {
		end--
	}
	return end
}

func (s *stripper) class(i, j int) int {
	src := s.src
	s.copy(i, j)
	if k := skipSpace(src, j); k >= len(src) || !(isIdentStart(src[k]) || src[k] == '{' || src[k] == '<') {
		return j
	}

	for k := skipSpace(src, j); k < len(src) && src[k] != '{'; k = skipSpace(src, j) {
		switch {
		case src[k] == '<':
			end := matchClose(src, k)
			if end < 0 {
				return j
			}
			j = end + 1
		case isIdentStart(src[k]):
			n := identEnd(src, k)
			if src[k:n] == "implements" {
				for n < len(src) && src[n] != '{' {
					n++
				}
				s.out = append(s.out, ' ')
				return n
			}
			s.copy(j, n)
			j = n
		default:
			s.copy(j, k+1)
			j = k + 1
		}
	}
	return j
}

// castContext reports whether the `as`/`satisfies` word spanning [i, j)
// follows an expression and precedes a type.
func (s *stripper) castContext(i, j int) bool {
	p := prevNonSpace(s.src, i)
	if p < 0 {
		return false
	}
	c := s.src[p]
	if !(isIdentPart(c) || c == ')' || c == ']' || c == '}' || c == '"' || c == '\'' || c == '`') {
		return false
	}
	k := skipSpace(s.src, j)
	if k == j || k >= len(s.src) {
		return false
	}
	n := s.src[k]
	return isIdentStart(n) || n == '{' || n == '[' || n == '(' || n == '\'' || n == '"'
}

func (s *stripper) cast(j int) int {
	s.trimOut()
	end := skipType(s.src, j, castStop)
	for end > j && isSpace(s.src[end-1]) {
		end--
	}
	return end
}

// method handles `name(...) {` and `name(...): T {` at the start of a line,
// which covers class and object literal methods.
func (s *stripper) method(i, j int) int {
	src := s.src
	if !atStatementStart(src, i) {
		return -1
	}
	k := skipSpace(src, j)
	if k < len(src) && src[k] == '?' {
		k = skipSpace(src, k+1)
	}
	if k < len(src) && src[k] == '<' {
		end := matchClose(src, k)
		if end < 0 {
			return -1
		}
		k = skipSpace(src, end+1)
	}
	if k >= len(src) || src[k] != '(' {
		return -1
	}
	close := matchClose(src, k)
	if close < 0 {
		return -1
	}
	after := skipSpace(src, close+1)
	if after < len(src) && src[after] == ':' {
		after = skipType(src, after+1, returnStop)
	}
	if after >= len(src) || src[after] != '{' {
		return -1
	}

	s.dropModifiers()
	s.copy(i, j)
	return s.params(k)
}

var tsModifiers = map[string]bool{
	"public": true, "private": true, "protected": true,
	"readonly": true, "override": true, "abstract": true,
}

// dropModifiers removes TypeScript-only member modifiers already written
// before a method name.
func (s *stripper) dropModifiers() {
	for {
		end := len(s.out)
		for end > 0 && (s.out[end-1] == ' ' || s.out[end-1] == '\t') {
			end--
		}
		start := end
		for start > 0 && isIdentPart(s.out[start-1]) {
			start--
		}
		if start == end || !tsModifiers[string(s.out[start:end])] {
			return
		}
		s.out = s.out[:start]
	}
}

// arrowParams reports whether the parenthesis at i opens an arrow
// function's parameter list.
func (s *stripper) arrowParams(i int) bool {
	src := s.src
	if p := prevNonSpace(src, i); p >= 0 {
		switch c := src[p]; {
		case c == ')' || c == ']':
			return false
		case isIdentPart(c):
			w := prevWord(src, p+1)
			if w != "async" && w != "default" && !notMethods[w] {
				return false
			}
		}
	}
	return isArrowAt(src, i)
}

// arrowGenerics reports whether the `<` at i opens the type parameters of
// a generic arrow function such as `<T,>(x: T) => x`.
func (s *stripper) arrowGenerics(i int) bool {
	src := s.src
	p := prevNonSpace(src, i)
	if p >= 0 && !strings.ContainsRune("=(,:?", rune(src[p])) {
		return false
	}
	end := matchClose(src, i)
	if end < 0 {
		return false
	}
	k := skipSpace(src, end+1)
	return k < len(src) && src[k] == '(' && isArrowAt(src, k)
}

// typeArguments reports whether the `<` at i opens explicit type arguments
// of a call or construction, as in `new Map<string, number>()`.
func (s *stripper) typeArguments(i int) bool {
	src := s.src
	if i == 0 || !isIdentPart(src[i-1]) {
		return false
	}
	end := matchClose(src, i)
	if end < 0 || end+1 >= len(src) || src[end+1] != '(' {
		return false
	}
	args := src[i+1 : end]
	return !strings.ContainsAny(args, ";\n") && !strings.Contains(args, "&&") && !strings.Contains(args, "||")
}

// nonNull reports whether the `!` at i is a non-null assertion: it follows
// an operand directly and precedes punctuation or a binary operator.
func (s *stripper) nonNull(i int) bool {
	src := s.src
	if i == 0 {
		return false
	}
	p := src[i-1]
	if !(isIdentPart(p) || p == ')' || p == ']') {
		return false
	}
	if i+1 >= len(src) || strings.IndexByte(".[);,:}", src[i+1]) >= 0 {
		return true
	}
	if !isSpace(src[i+1]) && src[i+1] != '\n' {
		return false
	}
	// `<` after a blank is left alone so "Hello! <b>" in JSX text survives.
	k := skipSpaceNL(src, i+1)
	return k >= len(src) || strings.IndexByte("+-*/%>&|?=^);,.:", src[k]) >= 0
}

func isArrowAt(src string, open int) bool {
	close := matchClose(src, open)
	if close < 0 {
		return false
	}
	k := skipSpaceNL(src, close+1)
	if strings.HasPrefix(src[k:], "=>") {
		return true
	}
	if k < len(src) && src[k] == ':' {
		t := skipType(src, k+1, returnStop)
		return strings.HasPrefix(src[t:], "=>")
	}
	return false
}

// stripParamList removes annotations, optional markers and `this`
// parameters from the text between a parameter list's parentheses.
func stripParamList(list string) string {
	segs := splitTopLevel(list, ',')
	kept := make([]string, 0, len(segs))
	dropped := false
	for _, seg := range segs {
		p, drop := stripParam(seg)
		if drop {
			dropped = true
			continue
		}
		if len(kept) == 0 && dropped {
			p = strings.TrimLeft(p, " \t")
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ",")
}

func stripParam(seg string) (string, bool) {
	eq := indexTopLevel(seg, isAssign)
	head, tail := seg, ""
	if eq >= 0 {
		head, tail = seg[:eq], seg[eq:]
	}

	if colon := indexTopLevel(head, func(s string, i int) bool { return s[i] == ':' }); colon >= 0 {
		name := head[:colon]
		if strings.TrimSpace(name) == "this" {
			return "", true
		}
		end := len(head)
		for end > colon && isSpace(head[end-1]) {
			end--
		}
		head = trimOptional(name) + head[end:]
	} else {
		head = trimOptional(head)
	}

	if tail != "" {
		tail = "=" + stripAnnotations(tail[1:])
	}
	return head + tail, false
}

// trimOptional removes a trailing `?` optional marker.
func trimOptional(name string) string {
	t := strings.TrimRight(name, " \t")
	if strings.HasSuffix(t, "?") {
		return strings.TrimRight(t[:len(t)-1], " \t") + name[len(t):]
	}
	return name
}

func isAssign(s string, i int) bool {
	if s[i] != '=' {
		return false
	}
	if i+1 < len(s) && (s[i+1] == '>' || s[i+1] == '=') {
		return false
	}
	return i == 0 || !strings.ContainsRune("=!<>", rune(s[i-1]))
}

// Stop functions for skipType. Each is consulted only at nesting depth 0.

func declStop(s string, i int, _ bool) bool {
	switch s[i] {
	case ';', ',', ')':
		return true
	case '=':
		return isAssign(s, i)
	case '\n':
		return !continuesType(s, i)
	}
	return false
}

func returnStop(s string, i int, consumed bool) bool {
	switch s[i] {
	case '{':
		return consumed
	case ';', ',', ')':
		return true
	case '=':
		return i+1 < len(s) && s[i+1] == '>' && !functionTypeArrow(s, i)
	case '\n':
		return !continuesType(s, i)
	}
	return false
}

func castStop(s string, i int, _ bool) bool {
	switch s[i] {
	case ')', ']', '}', ',', ';', '\n', '?', ':', '+', '*', '/':
		return true
	case '=':
		return isAssign(s, i) || (i+1 < len(s) && s[i+1] == '=')
	case '|', '&':
		return i+1 < len(s) && s[i+1] == s[i]
	case '-':
		return true
	}
	return false
}

// functionTypeArrow reports whether the `=>` at i belongs to a function
// type such as `(...args: A) => void` rather than ending the type before an
// arrow body.
func functionTypeArrow(s string, i int) bool {
	p := prevNonSpace(s, i)
	if p < 0 || s[p] != ')' {
		return false
	}
	open := matchOpen(s, p)
	if open < 0 {
		return false
	}
	q := prevNonSpace(s, open)
	if q < 0 {
		return false
	}
	switch s[q] {
	case ':', '>', '|', '&':
		return true
	}
	return isIdentPart(s[q]) && prevWord(s, q+1) == "new"
}

// continuesType reports whether a type spills over the newline at nl onto
// a line beginning with a union or intersection operator.
func continuesType(s string, nl int) bool {
	next := strings.TrimLeft(s[nl+1:], " \t\r\n")
	return next != "" && (next[0] == '|' || next[0] == '&')
}

// skipType returns the index where the type starting at i ends, as decided
// by stop at nesting depth 0.
func skipType(src string, i int, stop func(s string, i int, consumed bool) bool) int {
	depth := 0
	consumed := false
	j := i
	for j < len(src) {
		if end, ok := skipLiteral(src, j); ok {
			j = end
			consumed = true
			continue
		}
		c := src[j]
		if depth == 0 && stop(src, j, consumed) {
			return j
		}
		switch c {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return j
			}
			depth--
		case '>':
			if j > 0 && src[j-1] == '=' {
				break
			}
			if depth == 0 {
				return j
			}
			depth--
		}
		if !isSpace(c) && c != '\n' && c != '\r' {
			consumed = true
		}
		j++
	}
	return j
}
