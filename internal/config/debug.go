package config

import (
	"os"
	"strings"
)

func IsDebug() bool {
	return os.Getenv("AFFI_DEBUG") == "1"
}

// IsJSONLog reports whether AFFI_LOG_FORMAT asks for JSON log lines.
func IsJSONLog() bool {
	return strings.EqualFold(os.Getenv("AFFI_LOG_FORMAT"), "json")
}
