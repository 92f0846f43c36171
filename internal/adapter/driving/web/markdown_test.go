package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("hello world")
	assert.Contains(t, result, "hello world")
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("press **Enter**")
	assert.Contains(t, result, "<strong>Enter</strong>")
}

func TestRenderMarkdown_StripsScript(t *testing.T) {
	result := RenderMarkdown("hi <script>alert(1)</script>")
	assert.NotContains(t, result, "<script>")
}

func TestCleanFormValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Primary", want: "Primary"},
		{name: "trims", input: "  db1 \t", want: "db1"},
		{name: "strips tags", input: "<b>Primary</b>", want: "Primary"},
		{name: "drops script", input: "x<script>alert(1)</script>", want: "x"},
		{name: "keeps query string", input: "https://a.example/stats.php?a=1&b=2", want: "https://a.example/stats.php?a=1&b=2"},
		{name: "keeps comma for validation", input: "a,b", want: "a,b"},
		{name: "keeps bare less-than", input: "a < b", want: "a < b"},
		{name: "keeps apostrophe", input: "O'Brien", want: "O'Brien"},
		{name: "decodes quotes", input: `say "hi"`, want: `say "hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanFormValue(tt.input))
		})
	}
}
