package wallet

import (
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/minio/sha256-simd"
)

// AddressLength is the length of a hex encoded compressed secp256k1 public key.
const AddressLength = secp256k1.PubKeyBytesLenCompressed * 2

// secretKey holds the private scalar. It has no exported accessor and is
// only ever used by Identity.Sign.
type secretKey struct {
	key *secp256k1.PrivateKey
}

func (s secretKey) String() string   { return "secretKey(redacted)" }
func (s secretKey) GoString() string { return s.String() }

// Identity is a wallet: a secp256k1 key pair plus an advisory miner flag.
type Identity struct {
	secret    secretKey
	publicKey *secp256k1.PublicKey
	isMiner   bool
}

// NewIdentity generates a fresh key pair from rand. rand must be a
// cryptographically secure source outside of tests. A failing source is
// fatal: a wallet without secure key material must not be operated.
func NewIdentity(isMiner bool, rand io.Reader) *Identity {
	if rand == nil {
		panic("wallet: nil randomness source")
	}
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand)
	if err != nil {
		panic(fmt.Sprintf("wallet: failed to generate secp256k1 key: %v", err))
	}
	return &Identity{
		secret:    secretKey{key: priv},
		publicKey: priv.PubKey(),
		isMiner:   isMiner,
	}
}

// New generates an identity from the operating system's secure source.
func New(isMiner bool) *Identity {
	return NewIdentity(isMiner, crand.Reader)
}

// Address returns the hex encoding of the compressed public key.
func (id *Identity) Address() string {
	return hex.EncodeToString(id.publicKey.SerializeCompressed())
}

// PublicKey returns the compressed public key bytes.
func (id *Identity) PublicKey() []byte {
	return id.publicKey.SerializeCompressed()
}

// IsMiner reports whether the identity participates in block assembly.
func (id *Identity) IsMiner() bool {
	return id.isMiner
}

// Sign hashes data with SHA-256 and signs the digest with the private key.
// Signatures are RFC6979 deterministic and canonical (low S).
func (id *Identity) Sign(data []byte) *Signature {
	digest := sha256.Sum256(data)
	return &Signature{sig: signDigest(id.secret, digest[:])}
}

func signDigest(secret secretKey, digest []byte) *ecdsa.Signature {
	if len(digest) != sha256.Size {
		panic(fmt.Sprintf("wallet: digest must be %d bytes, got %d", sha256.Size, len(digest)))
	}
	return ecdsa.Sign(secret.key, digest)
}

// String never includes key material.
func (id *Identity) String() string {
	return fmt.Sprintf("Identity{address=%s, miner=%t}", id.Address(), id.isMiner)
}

// MarshalJSON emits only public fields.
func (id *Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Address string `json:"address"`
		IsMiner bool   `json:"isMiner"`
	}{id.Address(), id.isMiner})
}
