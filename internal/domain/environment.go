package domain

import "strings"

// Environment the remote API belongs to.
type Environment string

const (
	EnvDevelopment Environment = "DEVELOPMENT"
	EnvStaging     Environment = "STAGING"
	EnvProduction  Environment = "PRODUCTION"
)

// EnvironmentFromURL derives the environment from the API base url.
func EnvironmentFromURL(apiURL string) Environment {
	u := strings.ToLower(apiURL)
	switch {
	case strings.Contains(u, "staging"), strings.Contains(u, "stg"):
		return EnvStaging
	case strings.Contains(u, "dev"), strings.Contains(u, "localhost"), strings.Contains(u, "127.0.0.1"):
		return EnvDevelopment
	default:
		return EnvProduction
	}
}
