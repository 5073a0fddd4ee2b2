// Package openai implements the ai interfaces against OpenAI-compatible
// embedding APIs (OpenAI, Ollama, LocalAI, vLLM) using langchaingo.
package openai
