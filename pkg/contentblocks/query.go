package contentblocks

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// regexLiteral is the micro-grammar for pattern values inside a filter:
// an optional '<', then /pattern/flags, then an optional '>'. Only the flag
// letters g, i, m, s and x are accepted, so "/blog/post" stays a plain string.
var regexLiteral = regexp.MustCompile(`^<?/(.*)/([gimsx]*)>?$`)

// Sanitize parses a raw filter string into a Filter.
//
// The input must be a JSON object such as {"@subject":"abc"}. Top-level string
// values written as /pattern/ become case-insensitive Regex matches, so
// {"title":"/^hello/"} selects every item whose title starts with "hello".
// Everything else is returned exactly as parsed.
func Sanitize(raw string) (Filter, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &QueryError{Query: raw, Err: err}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, &QueryError{Query: raw, Err: errors.New("query must be a JSON object")}
	}

	filter := Filter(obj)
	if !strings.Contains(raw, "/") {
		return filter, nil
	}

	for field, value := range filter {
		s, ok := value.(string)
		if !ok {
			continue
		}
		if re, ok := parseRegexLiteral(s); ok {
			filter[field] = re
		}
	}
	return filter, nil
}

func parseRegexLiteral(s string) (Regex, bool) {
	m := regexLiteral.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return Regex{}, false
	}

	options := "i"
	for _, flag := range "msx" {
		if strings.ContainsRune(m[2], flag) {
			options += string(flag)
		}
	}
	return Regex{Pattern: strings.TrimSpace(m[1]), Options: options}, true
}
