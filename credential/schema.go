package credential

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// credentialSchema describes the shape Issue produces.
const credentialSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["@context", "type", "issuer", "issuanceDate", "credentialSubject"],
  "properties": {
    "@context": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string"}
    },
    "id": {"type": "string"},
    "type": {
      "type": "array",
      "contains": {"const": "VerifiableCredential"}
    },
    "issuer": {"type": "string", "minLength": 1},
    "issuanceDate": {"type": "string", "format": "date-time"},
    "expirationDate": {"type": "string", "format": "date-time"},
    "credentialSubject": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string", "minLength": 1}
      }
    },
    "proof": {
      "type": "object",
      "required": ["type", "proofPurpose", "verificationMethod", "jws"],
      "properties": {
        "type": {"type": "string"},
        "created": {"type": "string"},
        "proofPurpose": {"type": "string"},
        "verificationMethod": {"type": "string"},
        "jws": {"type": "string"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(credentialSchema)

// SchemaError lists every schema violation found by Validate.
type SchemaError struct {
	Details []string
}

func (e *SchemaError) Error() string {
	return "credential validation failed: " + strings.Join(e.Details, "; ")
}

// Validate checks vc against the credential JSON schema. It is a structural
// check only and has no bearing on Verify.
func Validate(vc *Credential) error {
	m, err := ToJSONMap(vc)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(map[string]interface{}(m)))
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return &SchemaError{Details: details}
}
