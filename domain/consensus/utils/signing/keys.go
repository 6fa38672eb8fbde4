package signing

import (
	"encoding/hex"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
)

// AddressLength is the length of an address: a hex encoded, uncompressed
// secp256k1 public key
const AddressLength = 2 * secp256k1.PubKeyBytesLenUncompressed

const addressPrefix = "04"

// PrivateKeyLength is the length of a serialized private key in bytes
const PrivateKeyLength = secp256k1.PrivKeyBytesLen

// GeneratePrivateKey returns a new random private key
func GeneratePrivateKey() (*secp256k1.PrivateKey, error) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate a private key")
	}
	return privateKey, nil
}

// PrivateKeyFromBytes parses a serialized private key
func PrivateKeyFromBytes(serialized []byte) (*secp256k1.PrivateKey, error) {
	if len(serialized) != PrivateKeyLength {
		return nil, errors.Errorf("private key must be %d bytes long, got %d", PrivateKeyLength, len(serialized))
	}
	privateKey := secp256k1.PrivKeyFromBytes(serialized)
	if privateKey.Key.IsZero() {
		return nil, errors.New("private key must not be zero")
	}
	return privateKey, nil
}

// PrivateKeyFromHex parses a hex encoded private key
func PrivateKeyFromHex(privateKeyHex string) (*secp256k1.PrivateKey, error) {
	serialized, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "private key is not valid hex")
	}
	return PrivateKeyFromBytes(serialized)
}

// Address returns the address owned by the given private key
func Address(privateKey *secp256k1.PrivateKey) string {
	return hex.EncodeToString(privateKey.PubKey().SerializeUncompressed())
}

// IsValidAddress returns whether address is a 130 character hex string,
// in either case, that starts with "04"
func IsValidAddress(address string) bool {
	if len(address) != AddressLength || !strings.HasPrefix(address, addressPrefix) {
		return false
	}
	_, err := hex.DecodeString(address)
	return err == nil
}

// IsValidHash returns whether hash is a hex encoded SHA-256 digest
func IsValidHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// Sign returns the hex encoded DER signature of the given hex encoded
// message hash
func Sign(privateKey *secp256k1.PrivateKey, messageHashHex string) (string, error) {
	messageHash, err := hex.DecodeString(messageHashHex)
	if err != nil {
		return "", errors.Wrap(err, "message hash is not valid hex")
	}
	signature := ecdsa.Sign(privateKey, messageHash)
	return hex.EncodeToString(signature.Serialize()), nil
}

// Verify returns whether signatureHex is a valid DER signature of
// messageHashHex by the owner of address. Malformed inputs never verify.
func Verify(address string, messageHashHex string, signatureHex string) bool {
	serializedPublicKey, err := hex.DecodeString(address)
	if err != nil {
		return false
	}
	publicKey, err := secp256k1.ParsePubKey(serializedPublicKey)
	if err != nil {
		return false
	}
	messageHash, err := hex.DecodeString(messageHashHex)
	if err != nil {
		return false
	}
	serializedSignature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	signature, err := ecdsa.ParseDERSignature(serializedSignature)
	if err != nil {
		return false
	}
	return signature.Verify(messageHash, publicKey)
}
