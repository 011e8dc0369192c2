package contentblocks

import (
	"bytes"
	"encoding/json"
	"net/url"
)

// ScriptOverrideParam is the query parameter that disables the script check
// when set to "1".
const ScriptOverrideParam = "script"

var scriptTag = []byte("<script")

// IsScriptInjection reports whether doc, serialized as JSON, contains an
// opening script tag in any letter case. Requests carrying script=1 are never
// flagged.
//
// This is a plain substring check. It does not catch event-handler
// attributes, entity-encoded markup or javascript: URLs.
func IsScriptInjection(query url.Values, doc any) bool {
	if query.Get(ScriptOverrideParam) == "1" {
		return false
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return false
	}
	return bytes.Contains(bytes.ToLower(buf.Bytes()), scriptTag)
}
