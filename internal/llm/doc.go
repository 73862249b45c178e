// Package llm talks to generative language models.
//
// GeminiClient calls the Gemini API through google.golang.org/genai.
// RateLimitedGenerator wraps any Generator with a token-bucket limiter and
// retry with backoff. CleanJSON pulls a JSON document out of free-form
// model output.
package llm
