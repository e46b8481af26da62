// Package ollama implements generation.TextGenerator against an Ollama
// server's HTTP API.
//
// The client is configured with an ordered list of targets, each an endpoint
// paired with an auth strategy. A request walks the list until one target
// answers with a 2xx status. The whole walk shares one deadline.
package ollama
