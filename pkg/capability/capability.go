// Package capability holds the static catalog of chat models and whether each
// one accepts image parts.
package capability

import "slices"

// DefaultModel is selected when neither flags nor config name a model.
const DefaultModel = "gpt-4.1"

// Model describes one selectable chat model.
type Model struct {
	ID         string `yaml:"id" toml:"id"`
	Name       string `yaml:"name" toml:"name"`
	Multimodal bool   `yaml:"multimodal" toml:"multimodal"`
}

// DisplayName returns Name, falling back to ID.
func (m Model) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// builtin is the catalog shipped with the client. The multimodal entries
// mirror the models the llm7 endpoint accepts image_url parts for.
var builtin = []Model{
	{ID: "gpt-4.1", Name: "GPT-4.1", Multimodal: true},
	{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Multimodal: true},
	{ID: "gpt-4.1-nano", Name: "GPT-4.1 Nano", Multimodal: true},
	{ID: "openai-roblox", Name: "OpenAI Roblox", Multimodal: true},
	{ID: "mistral-small-3.1-24B", Name: "Mistral Small 3.1 24B", Multimodal: true},
	{ID: "unity-mistral-large", Name: "Unity Mistral Large", Multimodal: true},
	{ID: "mirexa", Name: "Mirexa", Multimodal: true},
	{ID: "searchgpt", Name: "SearchGPT", Multimodal: true},
	{ID: "phi-4", Name: "Phi-4", Multimodal: true},
	{ID: "sur", Name: "Sur", Multimodal: true},
	{ID: "bidara", Name: "Bidara", Multimodal: true},
	{ID: "pixtral-12b-2409", Name: "Pixtral 12B", Multimodal: true},
	{ID: "pixtral-large-2411", Name: "Pixtral Large", Multimodal: true},
	{ID: "deepseek-r1", Name: "DeepSeek R1"},
	{ID: "deepseek-v3", Name: "DeepSeek V3"},
	{ID: "qwen2.5-coder-32b-instruct", Name: "Qwen 2.5 Coder 32B"},
	{ID: "llama-3.3-70b-instruct", Name: "Llama 3.3 70B"},
	{ID: "mistral-large-2411", Name: "Mistral Large"},
	{ID: "codestral-2501", Name: "Codestral"},
}

// Catalog is an immutable, ordered set of models. Build it once at startup.
type Catalog struct {
	models []Model
	index  map[string]int
}

// New builds a catalog from models. Later entries with the same ID replace
// earlier ones in place, so config can override builtin entries. Entries with
// an empty ID are skipped.
func New(models ...Model) *Catalog {
	c := &Catalog{index: make(map[string]int, len(models))}
	for _, m := range models {
		if m.ID == "" {
			continue
		}
		if i, ok := c.index[m.ID]; ok {
			c.models[i] = m
			continue
		}
		c.index[m.ID] = len(c.models)
		c.models = append(c.models, m)
	}
	return c
}

// Default returns the builtin catalog extended with extra models.
func Default(extra ...Model) *Catalog {
	return New(append(slices.Clone(builtin), extra...)...)
}

// Lookup returns the model with the given ID.
func (c *Catalog) Lookup(id string) (Model, bool) {
	i, ok := c.index[id]
	if !ok {
		return Model{}, false
	}
	return c.models[i], true
}

// IsMultimodal reports whether id accepts image parts. Unknown models are
// treated as text-only.
func (c *Catalog) IsMultimodal(id string) bool {
	m, ok := c.Lookup(id)
	return ok && m.Multimodal
}

// DisplayName returns the display name for id, or id itself when unknown.
func (c *Catalog) DisplayName(id string) string {
	if m, ok := c.Lookup(id); ok {
		return m.DisplayName()
	}
	return id
}

// Models returns a copy of the catalog in order.
func (c *Catalog) Models() []Model {
	return slices.Clone(c.models)
}

// Len returns the number of models.
func (c *Catalog) Len() int {
	return len(c.models)
}
