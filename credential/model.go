package credential

import (
	"encoding/json"
	"fmt"
)

// Credential is a W3C style Verifiable Credential as produced by Issue.
type Credential struct {
	Context           []string `json:"@context"`
	ID                string   `json:"id,omitempty"`
	Type              []string `json:"type"`
	Issuer            string   `json:"issuer"`
	IssuanceDate      string   `json:"issuanceDate"`
	ExpirationDate    string   `json:"expirationDate,omitempty"`
	CredentialSubject Subject  `json:"credentialSubject"`
	Proof             *Proof   `json:"proof,omitempty"`
}

// Subject represents the credentialSubject field. On the wire the claims
// sit next to the id: {"id": "...", "name": "..."}.
type Subject struct {
	ID     string
	Claims map[string]interface{}
}

// Proof represents the (fabricated) Linked Data Proof of a credential.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	ProofPurpose       string `json:"proofPurpose"`
	VerificationMethod string `json:"verificationMethod"`
	JWS                string `json:"jws"`
}

// Claim returns a single claim of the subject.
func (s Subject) Claim(key string) (interface{}, bool) {
	if key == "id" {
		return s.ID, s.ID != ""
	}
	v, ok := s.Claims[key]
	return v, ok
}

func (s Subject) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(s.Claims)+1)
	for k, v := range s.Claims {
		obj[k] = v
	}
	if s.ID != "" {
		obj["id"] = s.ID
	}
	return json.Marshal(obj)
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse credentialSubject: %w", err)
	}

	s.ID = ""
	if id, ok := obj["id"]; ok {
		idStr, ok := id.(string)
		if !ok {
			return fmt.Errorf("credentialSubject.id must be a string, got %T", id)
		}
		s.ID = idStr
		delete(obj, "id")
	}
	s.Claims = obj
	return nil
}
