package ai

import "context"

// TextGenerator produces text from a system prompt and a user prompt.
// All providers (Gemini, Ollama, OpenAI-compatible) implement this interface.
// Empty generated text is an error; callers substitute their own fallback.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
