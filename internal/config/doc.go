// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic.
//
// Every key can be overridden by an environment variable named after its path
// with a FLASHDECK_ prefix, e.g. FLASHDECK_LLM_OLLAMA_MODEL.
package config
