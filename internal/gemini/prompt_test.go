package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestTaskInstruction(t *testing.T) {
	got := TaskInstruction([]string{"suggest", "bogus", "readme"})
	want := "Complete the following tasks:\n" +
		"- Suggest improvements: refactoring, performance, readability, best practices.\n" +
		"- Create a complete, professional README.md.\n"
	assert.Equal(t, want, got)

	assert.Equal(t, "Complete the following tasks:\n", TaskInstruction(nil))
}

func TestKnown(t *testing.T) {
	for _, opt := range []string{"readme", "debug", "suggest"} {
		assert.True(t, Known(opt), opt)
	}
	assert.False(t, Known("README"))
	assert.False(t, Known(""))
}

func TestResponseSchema(t *testing.T) {
	s := ResponseSchema()
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Empty(t, s.Required)
	require.Len(t, s.Properties, 3)

	for name, desc := range map[string]string{
		"readme":  "Full README.md text",
		"debug":   "Errors analysis and fix suggestions",
		"suggest": "Code improving suggestions",
	} {
		p := s.Properties[name]
		require.NotNil(t, p, name)
		assert.Equal(t, genai.TypeString, p.Type)
		assert.Equal(t, desc, p.Description)
		require.NotNil(t, p.Nullable)
		assert.True(t, *p.Nullable)
	}
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt()
	assert.Contains(t, p, "IN JSON FORMAT ONLY")
	assert.Contains(t, p, `Keys allowed: only "readme", "debug", "suggest".`)
}

func TestDecodeReport(t *testing.T) {
	rep, err := DecodeReport(`{"readme":"# Hi","debug":null}`)
	require.NoError(t, err)
	require.NotNil(t, rep.Readme)
	assert.Equal(t, "# Hi", *rep.Readme)
	assert.Nil(t, rep.Debug)
	assert.Nil(t, rep.Suggest)

	_, err = DecodeReport("  ")
	assert.True(t, errors.Is(err, ErrEmptyReply))

	_, err = DecodeReport("not json")
	assert.ErrorContains(t, err, "decode reply")
}

func TestNewReviewerDefaultsModel(t *testing.T) {
	assert.Equal(t, DefaultModel, NewReviewer(" ", nil).Model())
	assert.Equal(t, "gemini-2.5-pro", NewReviewer("gemini-2.5-pro", nil).Model())
}
