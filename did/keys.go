package did

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Key source names accepted by NewKeySource.
const (
	KeySourceRandom    = "random"
	KeySourceSecp256k1 = "secp256k1"
)

const randomKeySize = 32

// KeySource produces the key pairs DIDs are derived from.
type KeySource interface {
	NewKeyPair() (*KeyPair, error)
}

// RandomKeySource fills both keys with random bytes. The result looks like
// key material but is not a point on any curve.
type RandomKeySource struct {
	// Reader defaults to crypto/rand.
	Reader io.Reader
}

func (s RandomKeySource) NewKeyPair() (*KeyPair, error) {
	r := s.Reader
	if r == nil {
		r = rand.Reader
	}

	pub := make([]byte, randomKeySize)
	if _, err := io.ReadFull(r, pub); err != nil {
		return nil, fmt.Errorf("failed to generate public key: %w", err)
	}
	priv := make([]byte, randomKeySize)
	if _, err := io.ReadFull(r, priv); err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	return &KeyPair{
		PublicKey:  hexutil.Encode(pub),
		PrivateKey: hexutil.Encode(priv),
	}, nil
}

// Secp256k1KeySource generates real secp256k1 keys. The public key is the
// 33 byte compressed encoding.
type Secp256k1KeySource struct{}

func (Secp256k1KeySource) NewKeyPair() (*KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	return &KeyPair{
		PublicKey:  hexutil.Encode(priv.PubKey().SerializeCompressed()),
		PrivateKey: hexutil.Encode(priv.Serialize()),
	}, nil
}

// NewKeySource returns the key source registered under name.
func NewKeySource(name string) (KeySource, error) {
	switch name {
	case "", KeySourceRandom:
		return RandomKeySource{}, nil
	case KeySourceSecp256k1:
		return Secp256k1KeySource{}, nil
	default:
		return nil, fmt.Errorf("unknown key source %q", name)
	}
}

// PublicKeyBytes decodes the hex public key of kp.
func (kp *KeyPair) PublicKeyBytes() ([]byte, error) {
	b, err := hexutil.Decode(kp.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %w", err)
	}
	return b, nil
}
