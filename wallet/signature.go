package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/minio/sha256-simd"
)

var (
	// ErrInvalidAddress is returned when an address is not a hex encoded compressed public key.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidSignature is returned when a signature cannot be decoded.
	ErrInvalidSignature = errors.New("invalid signature encoding")
)

// Signature is an ECDSA signature over the SHA-256 digest of some data.
type Signature struct {
	sig *ecdsa.Signature
}

// DER returns the DER serialization.
func (s *Signature) DER() []byte {
	return s.sig.Serialize()
}

// Hex returns the hex encoded DER serialization.
func (s *Signature) Hex() string {
	return hex.EncodeToString(s.DER())
}

// ParseSignatureHex decodes a hex encoded DER signature.
func ParseSignatureHex(sigHex string) (*Signature, error) {
	der, err := hex.DecodeString(sigHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &Signature{sig: sig}, nil
}

// ParseAddress recovers the public key from an address.
func ParseAddress(address string) (*secp256k1.PublicKey, error) {
	if len(address) != AddressLength {
		return nil, fmt.Errorf("%w: expected %d hex chars, got %d", ErrInvalidAddress, AddressLength, len(address))
	}
	raw, err := hex.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return pub, nil
}

// Verify reports whether sig is a valid signature of data by the key behind address.
func Verify(address string, data []byte, sig *Signature) bool {
	if sig == nil || sig.sig == nil {
		return false
	}
	pub, err := ParseAddress(address)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(data)
	return sig.sig.Verify(digest[:], pub)
}

// VerifyHex is Verify for a hex encoded DER signature.
func VerifyHex(address string, data []byte, sigHex string) bool {
	sig, err := ParseSignatureHex(sigHex)
	if err != nil {
		return false
	}
	return Verify(address, data, sig)
}
