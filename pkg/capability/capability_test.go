package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Multimodal(t *testing.T) {
	c := Default()

	multimodal := []string{
		"gpt-4.1", "gpt-4.1-mini", "gpt-4.1-nano", "openai-roblox",
		"mistral-small-3.1-24B", "unity-mistral-large", "mirexa",
		"searchgpt", "phi-4", "sur", "bidara", "pixtral-12b-2409",
		"pixtral-large-2411",
	}
	for _, id := range multimodal {
		assert.True(t, c.IsMultimodal(id), "IsMultimodal(%q)", id)
	}

	assert.False(t, c.IsMultimodal("deepseek-r1"))
	assert.False(t, c.IsMultimodal("unknown-model"))
	assert.False(t, c.IsMultimodal(""))
}

func TestDefault_ContainsDefaultModel(t *testing.T) {
	m, ok := Default().Lookup(DefaultModel)
	require.True(t, ok)
	assert.True(t, m.Multimodal)
}

func TestIsMultimodal_CaseSensitive(t *testing.T) {
	assert.False(t, Default().IsMultimodal("GPT-4.1"))
}

func TestDefault_ExtraOverridesInPlace(t *testing.T) {
	c := Default(
		Model{ID: "deepseek-r1", Name: "R1 (vision)", Multimodal: true},
		Model{ID: "my-model", Name: "Mine"},
	)

	assert.True(t, c.IsMultimodal("deepseek-r1"))
	assert.Equal(t, "R1 (vision)", c.DisplayName("deepseek-r1"))

	models := c.Models()
	assert.Equal(t, "gpt-4.1", models[0].ID)
	assert.Equal(t, "my-model", models[len(models)-1].ID)
	assert.Equal(t, len(builtin)+1, c.Len())
}

func TestNew_SkipsEmptyIDs(t *testing.T) {
	c := New(Model{Name: "nameless"}, Model{ID: "a"})
	assert.Equal(t, 1, c.Len())
}

func TestDisplayName(t *testing.T) {
	c := New(Model{ID: "a", Name: "Alpha"}, Model{ID: "b"})

	assert.Equal(t, "Alpha", c.DisplayName("a"))
	assert.Equal(t, "b", c.DisplayName("b"))
	assert.Equal(t, "zzz", c.DisplayName("zzz"))
}

func TestModels_ReturnsCopy(t *testing.T) {
	c := New(Model{ID: "a", Multimodal: true})

	models := c.Models()
	models[0].Multimodal = false

	assert.True(t, c.IsMultimodal("a"))
}

func TestDefault_DoesNotMutateBuiltin(t *testing.T) {
	before := len(builtin)
	_ = Default(Model{ID: "x"})
	assert.Len(t, builtin, before)
}
