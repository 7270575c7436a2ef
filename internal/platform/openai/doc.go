// Package openai adapts OpenAI-compatible chat completion endpoints
// (OpenAI itself, OpenRouter and similar gateways) to generation.Provider.
package openai
