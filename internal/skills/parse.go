// Package skills turns stored skill strings into token lists and scores a
// student's skills against a job's required skills.
package skills

import "strings"

// ParseSkillList converts a stored skill string into an ordered token list.
//
// Two encodings are accepted: a bracketed, JSON-ish array such as
// `["Java", "Go"]` and a plain comma-separated list such as `Java, Go`.
// The array form is scanned tolerantly (it is never handed to a JSON
// decoder), so malformed content degrades to a best-effort list instead of an
// error. Tokens are trimmed and empties dropped; case is preserved.
func ParseSkillList(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}

	if strings.HasPrefix(trimmed, "[") {
		return splitTokens(bracketBody(trimmed), true)
	}
	return splitTokens(trimmed, false)
}

// bracketBody returns the text between the leading '[' and the last ']'.
// A missing closing bracket keeps everything after the opening one.
func bracketBody(s string) string {
	body := s[1:]
	if end := strings.LastIndex(body, "]"); end >= 0 {
		body = body[:end]
	}
	return body
}

func splitTokens(s string, unquote bool) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if unquote {
			token = stripQuotes(token)
		}
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

// stripQuotes removes any run of surrounding quote characters, including
// unbalanced ones left behind by a truncated array.
func stripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\"'`"))
}
