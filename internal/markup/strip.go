package markup

import "strings"

// StripTags removes every "<", at least one character, then the nearest ">".
// A "<" with no such closing bracket is kept as text.
func StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for {
		open := strings.IndexByte(s, '<')
		if open < 0 || open+2 > len(s) {
			break
		}
		end := strings.IndexByte(s[open+2:], '>')
		if end < 0 {
			break
		}
		sb.WriteString(s[:open])
		s = s[open+2+end+1:]
	}
	sb.WriteString(s)

	return sb.String()
}
