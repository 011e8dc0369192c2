package contentblocks_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

func TestIsScriptInjection(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		want bool
	}{
		{"plain text", contentblocks.Document{"title": "Hello"}, false},
		{"lowercase tag", contentblocks.Document{"body": "<script>alert(1)</script>"}, true},
		{"mixed case tag", contentblocks.Document{"body": "<ScRiPt src=x>"}, true},
		{"nested value", contentblocks.Document{"blocks": []any{map[string]any{"html": "<SCRIPT>"}}}, true},
		{"in key", contentblocks.Document{"<script": "x"}, true},
		{"closing tag only", contentblocks.Document{"body": "</script>"}, false},
		{"event handler not caught", contentblocks.Document{"body": `<img onerror="alert(1)">`}, false},
		{"entity encoded not caught", contentblocks.Document{"body": "&lt;script&gt;"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contentblocks.IsScriptInjection(url.Values{}, tt.doc))
		})
	}
}

func TestIsScriptInjection_Override(t *testing.T) {
	doc := contentblocks.Document{"body": "<script>alert(1)</script>"}

	assert.False(t, contentblocks.IsScriptInjection(url.Values{"script": {"1"}}, doc))
	assert.True(t, contentblocks.IsScriptInjection(url.Values{"script": {"0"}}, doc))
	assert.True(t, contentblocks.IsScriptInjection(nil, doc))
}
