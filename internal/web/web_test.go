package web

import (
	"bytes"
	"testing"

	"loan_predictor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_RenderViews(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"home.html", "register.html", "login.html", "predict.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "register.html", map[string]any{
		"Flashes": []model.Flash{{Category: model.FlashError, Message: "Username already exists"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `class="flash flash-error">Username already exists`)

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "predict.html", map[string]any{"Username": "alice", "Output": "1.0"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `<output name="output">1.0</output>`)

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "predict.html", map[string]any{"Username": "alice", "Output": ""})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), `id="output"`)
}
