package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("**bold** and [a link](https://example.com)"))

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `href="https://example.com"`)
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Empty(t, RenderMarkdown(""))
}

func TestRenderMarkdown_StripsScript(t *testing.T) {
	out := string(RenderMarkdown(`hello <script>alert("x")</script>`))

	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "<script>")
}

func TestRenderMarkdown_GFMTaskList(t *testing.T) {
	out := string(RenderMarkdown("- [x] done\n- [ ] pending"))

	assert.Contains(t, out, "<li")
}
