package ollama

import (
	"net/http"
	"strings"
)

// AuthStrategy selects how the API key is attached to a request.
type AuthStrategy string

// Supported auth strategies.
const (
	AuthNone   AuthStrategy = "none"
	AuthBearer AuthStrategy = "bearer"
	AuthAPIKey AuthStrategy = "x-api-key"
)

// Target is one endpoint and the auth strategy used when calling it.
type Target struct {
	Endpoint string
	Auth     AuthStrategy
}

// Targets expands endpoints into the ordered list of targets to try.
// Without an API key every endpoint is called unauthenticated. With a key
// each endpoint is tried with a bearer token first, then an x-api-key header.
func Targets(endpoints []string, apiKey string) []Target {
	targets := make([]Target, 0, len(endpoints)*2)
	for _, ep := range endpoints {
		ep = strings.TrimRight(strings.TrimSpace(ep), "/")
		if ep == "" {
			continue
		}
		if apiKey == "" {
			targets = append(targets, Target{Endpoint: ep, Auth: AuthNone})
			continue
		}
		targets = append(targets,
			Target{Endpoint: ep, Auth: AuthBearer},
			Target{Endpoint: ep, Auth: AuthAPIKey})
	}
	return targets
}

func (t Target) authorize(req *http.Request, apiKey string) {
	switch t.Auth {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+apiKey)
	case AuthAPIKey:
		req.Header.Set("X-API-Key", apiKey)
	}
}

func (t Target) String() string {
	return t.Endpoint + " (" + string(t.Auth) + ")"
}
