package did

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slices"
)

// NewDocument returns an empty document for d.
func NewDocument(d string) *Document {
	return &Document{
		Context:            []string{ContextDIDv1},
		ID:                 d,
		VerificationMethod: []VerificationMethod{},
		Authentication:     []string{},
	}
}

// AddVerificationMethod appends vm and references it from authentication and
// assertionMethod.
func (doc *Document) AddVerificationMethod(vm VerificationMethod) {
	doc.VerificationMethod = append(doc.VerificationMethod, vm)
	doc.Authentication = append(doc.Authentication, vm.ID)
	doc.AssertionMethod = append(doc.AssertionMethod, vm.ID)
}

func (doc *Document) AddService(s Service) {
	doc.Service = append(doc.Service, s)
}

// Clone returns a deep copy of doc that shares no memory with it.
func (doc Document) Clone() Document {
	out := doc
	out.Context = slices.Clone(doc.Context)
	out.Authentication = slices.Clone(doc.Authentication)
	out.AssertionMethod = slices.Clone(doc.AssertionMethod)
	out.Service = slices.Clone(doc.Service)
	out.VerificationMethod = slices.Clone(doc.VerificationMethod)
	for i, vm := range out.VerificationMethod {
		if vm.PublicKeyJwk != nil {
			jwk := *vm.PublicKeyJwk
			out.VerificationMethod[i].PublicKeyJwk = &jwk
		}
	}
	return out
}

// FindVerificationMethod looks a verification method up by its full id.
func (doc *Document) FindVerificationMethod(id string) (*VerificationMethod, bool) {
	for i := range doc.VerificationMethod {
		if doc.VerificationMethod[i].ID == id {
			return &doc.VerificationMethod[i], true
		}
	}
	return nil, false
}

func KeyVerificationMethod(d, publicKeyHex string) VerificationMethod {
	return VerificationMethod{
		ID:           VerificationMethodID(d),
		Type:         TypeSecp256k1VerificationKey2019,
		Controller:   d,
		PublicKeyHex: publicKeyHex,
	}
}

func WebVerificationMethod(d string, jwk *JWK) VerificationMethod {
	return VerificationMethod{
		ID:           VerificationMethodID(d),
		Type:         TypeJSONWebKey2020,
		Controller:   d,
		PublicKeyJwk: jwk,
	}
}

// EthrVerificationMethod references the account on mainnet (chain id 1).
func EthrVerificationMethod(d string, address common.Address) VerificationMethod {
	return VerificationMethod{
		ID:                  VerificationMethodID(d),
		Type:                TypeSecp256k1RecoveryMethod2020,
		Controller:          d,
		BlockchainAccountID: fmt.Sprintf("eip155:1:%s", address.Hex()),
	}
}

// LinkedDomainsService points a did:web at its own domain.
func LinkedDomainsService(d, domain string) Service {
	return Service{
		ID:              d + "#linked-domain",
		Type:            TypeLinkedDomains,
		ServiceEndpoint: "https://" + domain,
	}
}
