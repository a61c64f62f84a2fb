package did

// Method identifies a DID method the sandbox knows how to fabricate.
type Method string

const (
	MethodKey  Method = "key"
	MethodWeb  Method = "web"
	MethodEthr Method = "ethr"
)

// Verification method and service types used in fabricated documents.
const (
	ContextDIDv1 = "https://www.w3.org/ns/did/v1"

	TypeSecp256k1VerificationKey2019 = "EcdsaSecp256k1VerificationKey2019"
	TypeJSONWebKey2020               = "JsonWebKey2020"
	TypeSecp256k1RecoveryMethod2020  = "EcdsaSecp256k1RecoveryMethod2020"
	TypeLinkedDomains                = "LinkedDomains"

	// OwnerFragment names the single verification method of every document.
	OwnerFragment = "owner"
)

// KeyPair holds the generated key material as 0x-prefixed hex strings.
// It is never used for signing.
type KeyPair struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

type Document struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	Controller         string               `json:"controller,omitempty"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication"`
	AssertionMethod    []string             `json:"assertionMethod,omitempty"`
	Service            []Service            `json:"service,omitempty"`
}

type VerificationMethod struct {
	ID                  string `json:"id"`
	Type                string `json:"type"`
	Controller          string `json:"controller"`
	PublicKeyHex        string `json:"publicKeyHex,omitempty"`
	PublicKeyJwk        *JWK   `json:"publicKeyJwk,omitempty"`
	BlockchainAccountID string `json:"blockchainAccountId,omitempty"`
}

// JWK represents a JSON Web Key structure
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Result is the DID, its document and the key pair it was derived from.
type Result struct {
	DID      string   `json:"did"`
	Document Document `json:"document"`
	KeyPair  KeyPair  `json:"keyPair"`
}
