package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golunesbridge/types"
)

// well-known valid keys: the system program id and a generic substrate
// dev address with the default SS58 prefix 42
const (
	validSolana = "11111111111111111111111111111111"
	validLunes  = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
)

func TestValidateSolanaAddress(t *testing.T) {
	assert.NoError(t, ValidateSolanaAddress(validSolana))
	assert.NoError(t, ValidateSolanaAddress("So11111111111111111111111111111111111111112"))

	assert.Error(t, ValidateSolanaAddress(""))
	assert.Error(t, ValidateSolanaAddress("not-an-address"))
	assert.Error(t, ValidateSolanaAddress("abc"))
	// valid base58 but wrong payload length
	assert.Error(t, ValidateSolanaAddress("2g"))
}

func TestValidateLunesAddress(t *testing.T) {
	assert.NoError(t, ValidateLunesAddress(validLunes))

	assert.Error(t, ValidateLunesAddress(""))
	assert.Error(t, ValidateLunesAddress("0OIl")) // not base58
	assert.Error(t, ValidateLunesAddress(validSolana))

	// flip the last character, checksum must fail
	corrupted := validLunes[:len(validLunes)-1] + "Z"
	assert.Error(t, ValidateLunesAddress(corrupted))
}

func TestValidateAddressDispatch(t *testing.T) {
	assert.NoError(t, ValidateAddress(types.CHAINKEY_SOLANA, validSolana))
	assert.NoError(t, ValidateAddress(types.CHAINKEY_LUNES, validLunes))

	assert.Error(t, ValidateAddress(types.CHAINKEY_SOLANA, validLunes))
	assert.Error(t, ValidateAddress(types.CHAINKEY_LUNES, validSolana))
}
