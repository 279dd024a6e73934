package utils

import "os"

// EnvOrDefault reads an environment variable, falling back to def when
// it is unset or empty.
func EnvOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}

	return def
}
