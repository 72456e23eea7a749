package codegen

import (
	"strconv"
	"strings"

	"github.com/julymiaw/seuyacc/grammar"
)

// expandAction rewrites the $$ and $N references of a semantic action
// into the value-stack accesses of the generated parser. When the
// referenced symbol carries a value type, the matching union arm is
// appended. Everything else passes through untouched.
func expandAction(action string, prod *grammar.Production) string {
	if action == "" {
		return "/* no semantic action */"
	}

	var out strings.Builder
	rhs := prod.RHS()
	i := 0
	for i < len(action) {
		if action[i] != '$' || i+1 >= len(action) {
			out.WriteByte(action[i])
			i++
			continue
		}

		switch {
		case action[i+1] == '$':
			out.WriteString("yyval")
			if tag := prod.LHS().ValueType(); tag != "" {
				out.WriteByte('.')
				out.WriteString(tag)
			}
			i += 2
		case isDigit(action[i+1]):
			j := i + 1
			for j < len(action) && isDigit(action[j]) {
				j++
			}
			n, _ := strconv.Atoi(action[i+1 : j])
			if n < 1 || n > len(rhs) {
				// Out-of-range references pass through so the C
				// compiler reports them in the user's own code.
				out.WriteString(action[i:j])
				i = j
				continue
			}
			out.WriteString("yyvsp[")
			out.WriteString(strconv.Itoa(n))
			out.WriteString("]")
			if tag := rhs[n-1].ValueType(); tag != "" {
				out.WriteByte('.')
				out.WriteString(tag)
			}
			i = j
		default:
			out.WriteByte(action[i])
			i++
		}
	}
	return out.String()
}

// stripBraces removes the outer braces of a captured action block.
func stripBraces(action string) string {
	if len(action) >= 2 && action[0] == '{' && action[len(action)-1] == '}' {
		return action[1 : len(action)-1]
	}
	return action
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
