package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/pilacorp/go-did-sandbox/did"
)

// Resolver turns a DID into its DID document.
type Resolver interface {
	Resolve(ctx context.Context, d string) (*did.Document, error)
}

// ResolvableMethods are the methods MockResolver answers for.
var ResolvableMethods = []did.Method{did.MethodKey, did.MethodWeb, did.MethodEthr}

// MockResolver fabricates documents for did:key, did:web and did:ethr. When a
// registry is configured, documents of DIDs generated in this process are
// returned as they were generated.
type MockResolver struct {
	registry *Registry
}

// Option configures a MockResolver.
type Option func(*MockResolver)

// WithRegistry makes the resolver look up generated documents first.
func WithRegistry(r *Registry) Option {
	return func(m *MockResolver) {
		m.registry = r
	}
}

func NewMockResolver(opts ...Option) *MockResolver {
	m := &MockResolver{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve returns a document whose id is d, or did.ErrUnsupportedMethod when
// d does not start with one of the resolvable method prefixes.
func (m *MockResolver) Resolve(ctx context.Context, d string) (*did.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	method, ok := resolvableMethod(d)
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", d, did.ErrUnsupportedMethod)
	}

	if m.registry != nil {
		if doc, found := m.registry.Get(d); found {
			return doc, nil
		}
	}

	return fabricate(method, d), nil
}

func resolvableMethod(d string) (did.Method, bool) {
	for _, method := range ResolvableMethods {
		if strings.HasPrefix(d, method.Prefix()) {
			return method, true
		}
	}
	return "", false
}

func fabricate(method did.Method, d string) *did.Document {
	doc := did.NewDocument(d)
	id := strings.TrimPrefix(d, method.Prefix())

	switch method {
	case did.MethodKey:
		publicKeyHex := "0x..."
		if pub, err := did.PublicKeyFromKeyDID(d); err == nil {
			publicKeyHex = hexutil.Encode(pub)
		}
		doc.AddVerificationMethod(did.KeyVerificationMethod(d, publicKeyHex))
	case did.MethodWeb:
		domain, _, _ := strings.Cut(id, ":")
		doc.AddVerificationMethod(did.WebVerificationMethod(d, &did.JWK{Kty: "EC", Crv: "secp256k1", X: "...", Y: "..."}))
		doc.AddService(did.LinkedDomainsService(d, domain))
	case did.MethodEthr:
		// did:ethr:<network>:<address> carries the address last
		address := id[strings.LastIndex(id, ":")+1:]
		doc.AddVerificationMethod(did.EthrVerificationMethod(d, common.HexToAddress(address)))
	}

	return doc
}
