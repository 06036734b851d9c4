package grammar

import "strings"

// expandPath rewrites prefixed names inside a property-path expression
// into angle-wrapped absolute IRIs, leaving path operators and "a"
// intact. Text already wrapped in angle brackets passes through
// verbatim; absolute IRIs must arrive wrapped, since their slashes are
// indistinguishable from the sequence operator.
func (g *Grammar) expandPath(path string) string {
	var sb strings.Builder
	var token strings.Builder

	flush := func() {
		if token.Len() == 0 {
			return
		}
		name := token.String()
		token.Reset()
		if name == "a" {
			sb.WriteString(name)
			return
		}
		if expanded, ok := g.table.Expand(name); ok {
			sb.WriteString("<" + expanded + ">")
			return
		}
		sb.WriteString("<" + name + ">")
	}

	runes := []rune(path)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '<' {
			flush()
			for ; i < len(runes); i++ {
				sb.WriteRune(runes[i])
				if runes[i] == '>' {
					break
				}
			}
			continue
		}
		switch r {
		case '/', '|', '^', '*', '+', '?', '(', ')', '!', ' ':
			flush()
			sb.WriteRune(r)
		default:
			token.WriteRune(r)
		}
	}
	flush()
	return sb.String()
}
