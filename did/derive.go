package did

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
)

// multibase base58btc prefix and the multicodec secp256k1-pub varint.
const base58btcPrefix = "z"

var secp256k1PubCodec = []byte{0xe7, 0x01}

// KeyIdentifier returns the did:key method-specific id for a public key.
func KeyIdentifier(pub []byte) string {
	buf := make([]byte, 0, len(secp256k1PubCodec)+len(pub))
	buf = append(buf, secp256k1PubCodec...)
	buf = append(buf, pub...)
	return base58btcPrefix + base58.Encode(buf)
}

// PublicKeyFromKeyDID recovers the public key encoded in a did:key.
func PublicKeyFromKeyDID(d string) ([]byte, error) {
	id, ok := strings.CutPrefix(d, MethodKey.Prefix())
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a did:key", ErrInvalidDID, d)
	}
	fingerprint, ok := strings.CutPrefix(id, base58btcPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not base58btc encoded", ErrInvalidDID, d)
	}
	raw, err := base58.Decode(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDID, err)
	}
	if !bytes.HasPrefix(raw, secp256k1PubCodec) || len(raw) == len(secp256k1PubCodec) {
		return nil, fmt.Errorf("%w: %q does not carry a secp256k1 public key", ErrInvalidDID, d)
	}
	return raw[len(secp256k1PubCodec):], nil
}

// EthrAddress derives an Ethereum address from a public key. Compressed
// secp256k1 keys get the real derivation; anything else is hashed as is.
func EthrAddress(pub []byte) common.Address {
	if key, err := crypto.DecompressPubkey(pub); err == nil {
		return crypto.PubkeyToAddress(*key)
	}
	return common.BytesToAddress(crypto.Keccak256(pub)[12:])
}

// JWKFromPublicKey builds an EC JWK. Keys that do not parse as secp256k1
// points get coordinates made up from the raw bytes.
func JWKFromPublicKey(pub []byte) *JWK {
	jwk := &JWK{Kty: "EC", Crv: "secp256k1"}

	if key, err := btcec.ParsePubKey(pub); err == nil {
		u := key.SerializeUncompressed()
		jwk.X = base64.RawURLEncoding.EncodeToString(u[1:33])
		jwk.Y = base64.RawURLEncoding.EncodeToString(u[33:])
		return jwk
	}

	jwk.X = base64.RawURLEncoding.EncodeToString(pub)
	jwk.Y = base64.RawURLEncoding.EncodeToString(crypto.Keccak256(pub))
	return jwk
}
