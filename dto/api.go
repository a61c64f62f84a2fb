// Package dto holds the JSON bodies exchanged with the sandbox HTTP API.
package dto

import (
	"time"

	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/did"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest        = "bad-request"
	CodeUnsupportedMethod = "unsupported-method"
	CodeNotFound          = "not-found"
	CodeConflict          = "conflict"
	CodeInternal          = "internal"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GenerateDIDRequest struct {
	Method string `json:"method"`
	Domain string `json:"domain,omitempty"`
}

type IssueCredentialRequest struct {
	Issuer  string                 `json:"issuer"`
	Subject string                 `json:"subject"`
	Claims  map[string]interface{} `json:"claims"`
	Types   []string               `json:"types,omitempty"`
}

type CredentialRequest struct {
	Credential *credential.Credential `json:"credential"`
}

type VerifyCredentialResponse struct {
	Verified     bool     `json:"verified"`
	SchemaErrors []string `json:"schemaErrors,omitempty"`
}

type DigestResponse struct {
	Digest string `json:"digest"`
}

type SetupOrganizationRequest struct {
	Domain string `json:"domain"`
}

type IssueStepRequest struct {
	Claims map[string]interface{} `json:"claims"`
}

// SessionResponse is the visible state of a sandbox walkthrough.
type SessionResponse struct {
	ID           string                 `json:"id"`
	Step         int                    `json:"step"`
	StepName     string                 `json:"stepName"`
	Organization *did.Result            `json:"organization,omitempty"`
	Holder       *did.Result            `json:"holder,omitempty"`
	Credential   *credential.Credential `json:"credential,omitempty"`
	Verified     *bool                  `json:"verified,omitempty"`
}

type HealthCheckResponse struct {
	Status      string    `json:"status"`
	CurrentTime time.Time `json:"currentTime"`
}
