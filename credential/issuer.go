package credential

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pilacorp/go-did-sandbox/did"
)

const (
	ContextCredentialsV1 = "https://www.w3.org/2018/credentials/v1"

	TypeVerifiableCredential = "VerifiableCredential"
	TypeEmployeeCredential   = "EmployeeCredential"

	ProofTypeSecp256k1Signature2019 = "EcdsaSecp256k1Signature2019"
	ProofPurposeAssertionMethod     = "assertionMethod"

	// jwsHeader is base64url({"alg":"ES256K"}) followed by an empty
	// (detached) payload segment.
	jwsHeader = "eyJhbGciOiJFUzI1NksifQ.."
)

// IssueOpt configures Issue.
type IssueOpt func(*issueOptions)

type issueOptions struct {
	contexts   []string
	types      []string
	id         string
	expiration time.Time
	now        func() time.Time
	random     io.Reader
}

// WithContexts appends extra JSON-LD contexts after the credentials v1 context.
func WithContexts(contexts ...string) IssueOpt {
	return func(o *issueOptions) {
		o.contexts = append(o.contexts, contexts...)
	}
}

// WithTypes replaces the credential type after "VerifiableCredential"
// (default: EmployeeCredential).
func WithTypes(types ...string) IssueOpt {
	return func(o *issueOptions) {
		o.types = types
	}
}

// WithID sets the credential id (default: a random urn:uuid).
func WithID(id string) IssueOpt {
	return func(o *issueOptions) {
		o.id = id
	}
}

// WithExpiration sets expirationDate.
func WithExpiration(t time.Time) IssueOpt {
	return func(o *issueOptions) {
		o.expiration = t
	}
}

// WithClock overrides the time source used for issuanceDate and proof.created.
func WithClock(now func() time.Time) IssueOpt {
	return func(o *issueOptions) {
		o.now = now
	}
}

// WithRandom overrides the source of the fake signature.
func WithRandom(r io.Reader) IssueOpt {
	return func(o *issueOptions) {
		o.random = r
	}
}

// Issue assembles a credential from issuerDID about subjectDID. Neither DID
// is validated. The proof carries a random jws that is not a signature over
// anything.
func Issue(issuerDID, subjectDID string, claims map[string]interface{}, opts ...IssueOpt) (*Credential, error) {
	o := &issueOptions{
		types:  []string{TypeEmployeeCredential},
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(o)
	}

	jws, err := fakeJWS(o.random)
	if err != nil {
		return nil, err
	}

	id := o.id
	if id == "" {
		id = "urn:uuid:" + uuid.NewString()
	}

	now := o.now().UTC().Format(time.RFC3339)

	vc := &Credential{
		Context:      append([]string{ContextCredentialsV1}, o.contexts...),
		ID:           id,
		Type:         credentialTypes(o.types),
		Issuer:       issuerDID,
		IssuanceDate: now,
		CredentialSubject: Subject{
			ID:     subjectDID,
			Claims: lo.OmitByKeys(claims, []string{"id"}),
		},
		Proof: &Proof{
			Type:               ProofTypeSecp256k1Signature2019,
			Created:            now,
			ProofPurpose:       ProofPurposeAssertionMethod,
			VerificationMethod: did.VerificationMethodID(issuerDID),
			JWS:                jws,
		},
	}
	if !o.expiration.IsZero() {
		vc.ExpirationDate = o.expiration.UTC().Format(time.RFC3339)
	}

	return vc, nil
}

func credentialTypes(extra []string) []string {
	types := []string{TypeVerifiableCredential}
	for _, t := range extra {
		if t != "" && !lo.Contains(types, t) {
			types = append(types, t)
		}
	}
	return types
}

func fakeJWS(r io.Reader) (string, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return "", fmt.Errorf("failed to generate proof: %w", err)
	}
	return jwsHeader + strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36), nil
}
