package grammar

import "strings"

func isLiteralName(name string) bool {
	return strings.HasPrefix(name, "'")
}

// LiteralValue computes the token value of a quoted literal by
// folding the bytes of the unquoted content into an integer,
// high byte first. A single character lands in [1, 255], except
// '\0', which folds to 0; multi-byte
// contents (after escape expansion) fold into larger values. The
// generated header and parser depend on this exact mapping.
func LiteralValue(name string) (int, error) {
	if len(name) < 2 || name[0] != '\'' || name[len(name)-1] != '\'' {
		return 0, newGrammarError(GrammarErrorInvalidLiteral, "not a quoted literal: %v", name)
	}
	content := name[1 : len(name)-1]
	if len(content) == 0 {
		return 0, newGrammarError(GrammarErrorInvalidLiteral, "empty literal: %v", name)
	}

	value := 0
	pos := 0
	for pos < len(content) {
		ch, next, err := parseEscape(content, pos)
		if err != nil {
			return 0, err
		}
		value = value<<8 | int(ch)
		pos = next
	}
	return value, nil
}

// parseEscape decodes one character of a literal body at pos,
// expanding C escape sequences, and returns the byte together with
// the position following it.
func parseEscape(content string, pos int) (byte, int, error) {
	if content[pos] != '\\' {
		return content[pos], pos + 1, nil
	}

	pos++
	if pos >= len(content) {
		return 0, 0, newGrammarError(GrammarErrorInvalidLiteral, "incomplete escape sequence")
	}

	esc := content[pos]
	pos++
	switch esc {
	case '\\':
		return '\\', pos, nil
	case '\'':
		return '\'', pos, nil
	case '"':
		return '"', pos, nil
	case 'n':
		return '\n', pos, nil
	case 't':
		return '\t', pos, nil
	case 'r':
		return '\r', pos, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		value := int(esc - '0')
		count := 1
		for count < 3 && pos < len(content) && content[pos] >= '0' && content[pos] <= '7' {
			value = value<<3 + int(content[pos]-'0')
			pos++
			count++
		}
		return byte(value), pos, nil
	case 'x', 'X':
		value := 0
		digits := 0
		for pos < len(content) {
			h := hexDigit(content[pos])
			if h < 0 {
				break
			}
			value = value<<4 + h
			pos++
			digits++
		}
		if digits == 0 {
			return 0, 0, newGrammarError(GrammarErrorInvalidLiteral, `\x needs hexadecimal digits`)
		}
		return byte(value), pos, nil
	default:
		return esc, pos, nil
	}
}

func hexDigit(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return 10 + int(ch-'a')
	case ch >= 'A' && ch <= 'F':
		return 10 + int(ch-'A')
	default:
		return -1
	}
}
