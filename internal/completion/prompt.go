// Package completion adapts hosted language models to service.Completer.
package completion

import "strings"

const (
	namePlaceholder = "{name}"
	fallbackName    = "there"
)

// RenderSystemPrompt fills the {name} placeholder with the sender's first name
func RenderSystemPrompt(template, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackName
	}
	return strings.ReplaceAll(template, namePlaceholder, name)
}
