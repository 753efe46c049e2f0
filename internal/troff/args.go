package troff

import "strings"

// SplitArgs tokenizes a macro argument line into logical words.
//
// Words are separated by spaces or tabs. A double-quoted span is one word
// with the quotes removed; an unterminated quote takes the rest of the line.
// A word ending in an escaping backslash has it rewritten to a space and is
// joined with the following word. The join applies once, so `a\ b c` gives
// ["a b", "c"], while `a\ \ b` chains into ["a  b"].
func SplitArgs(line string) []string {
	var args []string
	appendNext := false

	for _, w := range scanWords(line) {
		part := w.text
		switch {
		case !w.quoted && endsWithEscape(part):
			part = part[:len(part)-1] + " "
			if appendNext && len(args) > 0 {
				args[len(args)-1] += part
			} else {
				args = append(args, part)
			}
			appendNext = true
		case appendNext && len(args) > 0:
			args[len(args)-1] += part
			appendNext = false
		default:
			args = append(args, part)
			appendNext = false
		}
	}

	return args
}

// word is one raw token of an argument line.
type word struct {
	text   string
	quoted bool
}

// scanWords splits line on blanks, keeping quoted spans intact.
func scanWords(line string) []word {
	var words []word
	i := 0
	for i < len(line) {
		if isBlank(line[i]) {
			i++
			continue
		}

		if line[i] == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end == -1 {
				words = append(words, word{text: line[i+1:], quoted: true})
				break
			}
			words = append(words, word{text: line[i+1 : i+1+end], quoted: true})
			i += end + 2
			continue
		}

		start := i
		for i < len(line) && !isBlank(line[i]) {
			i++
		}
		words = append(words, word{text: line[start:i]})
	}
	return words
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// endsWithEscape reports whether s ends in an odd run of backslashes,
// i.e. whether the blank after it is escaped rather than a literal `\\`.
func endsWithEscape(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
