package askpage_test

import (
	"testing"

	"github.com/fwojciec/askpage"
	"github.com/stretchr/testify/assert"
)

func TestParseToolInput(t *testing.T) {
	t.Parallel()

	t.Run("reads the query argument", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "what is AI?", askpage.ParseToolInput(`{"query":"what is AI?"}`))
	})

	t.Run("accepts a renamed string argument", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "what is AI?", askpage.ParseToolInput(`{"__arg1":"what is AI?"}`))
	})

	t.Run("passes plain text through", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "what is AI?", askpage.ParseToolInput("what is AI?"))
	})

	t.Run("returns empty for object without strings", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, askpage.ParseToolInput(`{"n":1}`))
	})
}

func TestToolInputSchema(t *testing.T) {
	t.Parallel()

	schema := askpage.ToolInputSchema()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{askpage.ToolInputKey}, schema["required"])
	assert.Contains(t, schema["properties"], askpage.ToolInputKey)
}
