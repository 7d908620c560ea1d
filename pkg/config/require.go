package config

import "log"

// MustNonEmpty hands back the value, fatally exiting when the env var it
// was read from is unset or blank.
func MustNonEmpty(value, envName string) string {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
	return value
}

func MustNonEmptyBytes(value []byte, envName string) []byte {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
	return value
}
