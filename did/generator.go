package did

import (
	"context"
	"fmt"
)

// Generator fabricates DIDs and their documents.
type Generator struct {
	keys KeySource
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithKeySource sets where key pairs come from (default: RandomKeySource).
func WithKeySource(ks KeySource) GeneratorOption {
	return func(g *Generator) {
		g.keys = ks
	}
}

// NewGenerator initializes a new Generator instance
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{keys: RandomKeySource{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateDID creates a key pair and derives a DID of the given method from
// it. domain is required for MethodWeb and ignored otherwise.
//
// The returned document always has id == DID and a single verification
// method controlled by the DID.
func (g *Generator) GenerateDID(ctx context.Context, method Method, domain string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if method == MethodWeb && domain == "" {
		return nil, ErrDomainRequired
	}

	keyPair, err := g.keys.NewKeyPair()
	if err != nil {
		return nil, err
	}
	pub, err := keyPair.PublicKeyBytes()
	if err != nil {
		return nil, err
	}

	var d string
	var vm VerificationMethod
	var services []Service

	switch method {
	case MethodKey:
		d = MethodKey.Prefix() + KeyIdentifier(pub)
		vm = KeyVerificationMethod(d, keyPair.PublicKey)
	case MethodWeb:
		d = MethodWeb.Prefix() + domain
		vm = WebVerificationMethod(d, JWKFromPublicKey(pub))
		services = append(services, LinkedDomainsService(d, domain))
	case MethodEthr:
		d = MethodEthr.Prefix() + EthrAddress(pub).Hex()
		vm = EthrVerificationMethod(d, EthrAddress(pub))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	doc := NewDocument(d)
	doc.AddVerificationMethod(vm)
	for _, s := range services {
		doc.AddService(s)
	}

	return &Result{
		DID:      d,
		Document: *doc,
		KeyPair:  *keyPair,
	}, nil
}
