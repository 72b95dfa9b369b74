package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"golunesbridge/types"
)

func TestSanitizeMessageRedactsSecrets(t *testing.T) {
	cases := map[string]string{
		"rpc error: key=AbCdEf123456 rejected":   "rpc error: key=[redacted] rejected",
		"bad seed 5KQwrPbwdL6PhXujxW37FSSUcqhw":  "bad seed=[redacted]",
		"wallet password: hunter2hunter2":        "wallet password=[redacted]",
		"connection refused":                     "connection refused",
		"amount must be positive":                "amount must be positive",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeMessage(in), "input %q", in)
	}
}

func TestUserMessagePassesTaxonomyThrough(t *testing.T) {
	err := types.NewBridgeError(types.ErrInvalidAmount, "amount must be positive")
	assert.Equal(t, "amount must be positive", UserMessage(err, false))
	assert.Equal(t, "amount must be positive", UserMessage(err, true))
}

func TestUserMessageHidesInternalErrorsOutsideDev(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.5:6379: connection refused")
	assert.Equal(t, genericErrorMessage, UserMessage(err, false))
	assert.Equal(t, err.Error(), UserMessage(err, true))
}

func TestUserMessageRedactsEvenInDevMode(t *testing.T) {
	err := errors.New("signing failed, key=deadbeef00112233")
	assert.Equal(t, "signing failed, key=[redacted]", UserMessage(err, true))

	berr := types.NewBridgeError(types.ErrTransactionFailed, "node rejected, seed: 0123456789abcdef")
	assert.Equal(t, "node rejected, seed=[redacted]", UserMessage(berr, false))
}

func TestUserMessageNilError(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil, false))
}
