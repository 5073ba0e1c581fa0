package transform

import (
	"regexp"
	"strings"
)

var plainParam = regexp.MustCompile(`^(\s*)([A-Za-z_$][\w$]*)(\s*)(=.*)?$`)

// Annotate adds `: any` to the unannotated simple parameters of function
// declarations and expressions, a best-effort upgrade of untyped source
// for a typed project. Destructured and rest parameters are left alone.
// Only annotations are inserted, so runtime behavior is unchanged.
func Annotate(code string) string {
	var b strings.Builder
	b.Grow(len(code) + len(code)/16)

	last := 0
	for i := 0; i < len(code); {
		if end, ok := skipLiteral(code, i); ok {
			i = end
			continue
		}
		if !isIdentStart(code[i]) || (i > 0 && isIdentPart(code[i-1])) {
			i++
			continue
		}
		j := identEnd(code, i)
		if code[i:j] != "function" {
			i = j
			continue
		}

		k := skipSpace(code, j)
		if k < len(code) && code[k] == '*' {
			k = skipSpace(code, k+1)
		}
		k = skipSpace(code, identEnd(code, k))
		if k >= len(code) || code[k] != '(' {
			i = j
			continue
		}
		close := matchClose(code, k)
		if close < 0 {
			i = j
			continue
		}

		b.WriteString(code[last : k+1])
		b.WriteString(annotateParams(code[k+1 : close]))
		b.WriteByte(')')
		last = close + 1
		i = close + 1
	}
	b.WriteString(code[last:])
	return b.String()
}

func annotateParams(list string) string {
	if strings.TrimSpace(list) == "" {
		return list
	}
	segs := splitTopLevel(list, ',')
	for n, seg := range segs {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		m := plainParam.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		// m[3] keeps the blank before a default value.
		segs[n] = m[1] + m[2] + ": any" + m[3] + m[4]
	}
	return strings.Join(segs, ",")
}
