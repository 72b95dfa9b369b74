package chains

import (
	"bytes"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

var ErrBadAddress = errors.New("malformed address")

// ValidateSolanaAddress checks the string decodes to a 32-byte ed25519
// public key.
func ValidateSolanaAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return ErrBadAddress
	}
	return nil
}

// ss58Prefix is the network identity byte used by Lunes SS58 addresses.
// Checked lazily so tests can exercise validation without loading config.
var ss58Prefix byte = 42

func SetSS58Prefix(prefix byte) {
	ss58Prefix = prefix
}

// ValidateLunesAddress checks an SS58 address: base58 payload of
// [prefix][32-byte pubkey][2-byte checksum], checksum being the first two
// bytes of blake2b-512 over "SS58PRE" || prefix || pubkey.
func ValidateLunesAddress(address string) error {
	raw, err := base58.Decode(address)
	if err != nil {
		return ErrBadAddress
	}
	if len(raw) != 35 {
		return ErrBadAddress
	}
	if raw[0] != ss58Prefix {
		return ErrBadAddress
	}

	hasher, err := blake2b.New512(nil)
	if err != nil {
		return err
	}
	hasher.Write([]byte("SS58PRE"))
	hasher.Write(raw[:33])
	sum := hasher.Sum(nil)

	if !bytes.Equal(sum[:2], raw[33:]) {
		return ErrBadAddress
	}
	return nil
}
