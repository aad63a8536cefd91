package wallet

// Signer defines an interface for signing data and accessing the public identity.
type Signer interface {
	Sign(data []byte) *Signature
	PublicKey() []byte // Compressed secp256k1 public key
	Address() string   // Hex encoded compressed public key
	IsMiner() bool
}

// Addresser is anything that can be paid.
type Addresser interface {
	Address() string
}

var _ Signer = (*Identity)(nil)
