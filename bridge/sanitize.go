package bridge

import (
	"regexp"

	"golunesbridge/types"
)

// secretPattern catches key/secret/password/token material that leaked into
// an error message, e.g. "api_key=AbCd1234..." or "seed: 5Kb8...".
var secretPattern = regexp.MustCompile(`(?i)\b(key|secret|password|token|seed|mnemonic)\b[\s:=_-]*[A-Za-z0-9+/=_-]{8,}`)

const genericErrorMessage = "an unexpected error occurred, please try again later"

// SanitizeMessage strips secret-looking material regardless of build mode.
func SanitizeMessage(msg string) string {
	return secretPattern.ReplaceAllString(msg, "$1=[redacted]")
}

// UserMessage renders an error for display. Taxonomy errors pass through
// with their message; anything internal becomes a generic message unless
// running in dev mode. Redaction applies in every mode.
func UserMessage(err error, devMode bool) string {
	if err == nil {
		return ""
	}
	if be := types.AsBridgeError(err); be != nil {
		return SanitizeMessage(be.Message)
	}
	if devMode {
		return SanitizeMessage(err.Error())
	}
	return genericErrorMessage
}
