package main

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/germanamz/llm7chat/pkg/capability"
)

// pickerOptions builds the select options for catalog, labelling models that
// accept images.
func pickerOptions(catalog *capability.Catalog) []huh.Option[string] {
	models := catalog.Models()
	opts := make([]huh.Option[string], len(models))
	for i, m := range models {
		label := m.DisplayName()
		if m.Multimodal {
			label += " (images)"
		}
		opts[i] = huh.NewOption(label, m.ID)
	}
	return opts
}

// runModelPicker asks for a model interactively, starting at current.
func runModelPicker(catalog *capability.Catalog, current string) (string, error) {
	selected := current

	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Model").
			Description("Switching later clears the conversation.").
			Options(pickerOptions(catalog)...).
			Value(&selected),
	)).Run()
	if err != nil {
		return "", fmt.Errorf("model picker: %w", err)
	}

	return selected, nil
}
