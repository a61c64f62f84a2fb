package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/dto"
	"github.com/pilacorp/go-did-sandbox/internal/logfields"
)

const (
	apiPrefix = "/api/v1"

	didsPath         = apiPrefix + "/dids"
	didPath          = didsPath + "/{did}"
	credentialsPath  = apiPrefix + "/credentials"
	verifyPath       = credentialsPath + "/verify"
	digestPath       = credentialsPath + "/digest"
	healthCheckPath  = "/healthcheck"
	metricsPath      = "/metrics"
	healthCheckReady = "success"
)

// Simulator is the identity backend the API is served from.
type Simulator interface {
	GenerateDID(ctx context.Context, method did.Method, domain string) (*did.Result, error)
	IssueCredential(ctx context.Context, issuer, subject string, claims map[string]interface{},
		opts ...credential.IssueOpt) (*credential.Credential, error)
	VerifyCredential(ctx context.Context, vc *credential.Credential) (bool, error)
	ResolveDID(ctx context.Context, d string) (*did.Document, error)
}

// Operation serves the DID and credential endpoints.
type Operation struct {
	sim    Simulator
	logger *zap.Logger
}

func NewOperation(sim Simulator, logger *zap.Logger) *Operation {
	return &Operation{sim: sim, logger: logger}
}

func (o *Operation) GetRESTHandlers() []Handler {
	return []Handler{
		newHTTPHandler(didsPath, http.MethodPost, o.generateDID),
		newHTTPHandler(didPath, http.MethodGet, o.resolveDID),
		newHTTPHandler(credentialsPath, http.MethodPost, o.issueCredential),
		newHTTPHandler(verifyPath, http.MethodPost, o.verifyCredential),
		newHTTPHandler(digestPath, http.MethodPost, o.digestCredential),
	}
}

func (o *Operation) generateDID(rw http.ResponseWriter, req *http.Request) {
	var body dto.GenerateDIDRequest
	if err := decodeJSON(req, &body); err != nil {
		writeError(o.logger, rw, err)
		return
	}

	method, err := did.ParseMethod(body.Method)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	result, err := o.sim.GenerateDID(req.Context(), method, body.Domain)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	writeJSON(o.logger, rw, http.StatusCreated, result)
}

func (o *Operation) resolveDID(rw http.ResponseWriter, req *http.Request) {
	d, err := pathDID(req)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	o.logger.Debug("resolve received request", logfields.WithDID(d))

	doc, err := o.sim.ResolveDID(req.Context(), d)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	writeJSON(o.logger, rw, http.StatusOK, doc)
}

// pathDID unescapes the {did} route variable once. The router matches on the
// encoded path, so a percent-encoded DID reaches the resolver as sent.
func pathDID(req *http.Request) (string, error) {
	d, err := url.PathUnescape(mux.Vars(req)["did"])
	if err != nil {
		return "", fmt.Errorf("%w: invalid DID in path: %w", errBadRequest, err)
	}
	return d, nil
}

func (o *Operation) issueCredential(rw http.ResponseWriter, req *http.Request) {
	var body dto.IssueCredentialRequest
	if err := decodeJSON(req, &body); err != nil {
		writeError(o.logger, rw, err)
		return
	}

	if body.Issuer == "" || body.Subject == "" {
		writeError(o.logger, rw, fmt.Errorf("%w: issuer and subject are required", errBadRequest))
		return
	}

	var opts []credential.IssueOpt
	if len(body.Types) > 0 {
		opts = append(opts, credential.WithTypes(body.Types...))
	}

	vc, err := o.sim.IssueCredential(req.Context(), body.Issuer, body.Subject, body.Claims, opts...)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	writeJSON(o.logger, rw, http.StatusCreated, vc)
}

func (o *Operation) verifyCredential(rw http.ResponseWriter, req *http.Request) {
	vc, err := decodeCredential(req)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	verified, err := o.sim.VerifyCredential(req.Context(), vc)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	resp := &dto.VerifyCredentialResponse{Verified: verified}

	var schemaErr *credential.SchemaError
	if err := credential.Validate(vc); errors.As(err, &schemaErr) {
		resp.SchemaErrors = schemaErr.Details
	} else if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	writeJSON(o.logger, rw, http.StatusOK, resp)
}

func (o *Operation) digestCredential(rw http.ResponseWriter, req *http.Request) {
	vc, err := decodeCredential(req)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	digest, err := credential.Digest(vc)
	if err != nil {
		writeError(o.logger, rw, fmt.Errorf("%w: %s", errBadRequest, err.Error()))
		return
	}

	writeJSON(o.logger, rw, http.StatusOK, &dto.DigestResponse{Digest: digest})
}

func decodeCredential(req *http.Request) (*credential.Credential, error) {
	var body dto.CredentialRequest
	if err := decodeJSON(req, &body); err != nil {
		return nil, err
	}
	if body.Credential == nil {
		return nil, fmt.Errorf("%w: credential is required", errBadRequest)
	}
	return body.Credential, nil
}
