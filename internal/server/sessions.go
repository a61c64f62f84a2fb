package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/dto"
	"github.com/pilacorp/go-did-sandbox/sandbox"
)

const (
	sessionsPath     = apiPrefix + "/sessions"
	sessionPath      = sessionsPath + "/{id}"
	organizationPath = sessionPath + "/organization"
	issuePath        = sessionPath + "/issue"
	walletPath       = sessionPath + "/wallet"
	sessionVerify    = sessionPath + "/verify"
	resetPath        = sessionPath + "/reset"
	sessionDIDPath   = sessionPath + "/dids/{did}"
)

// SessionOperation serves the step-by-step sandbox walkthrough.
type SessionOperation struct {
	manager *sandbox.Manager
	logger  *zap.Logger
}

func NewSessionOperation(manager *sandbox.Manager, logger *zap.Logger) *SessionOperation {
	return &SessionOperation{manager: manager, logger: logger}
}

func (o *SessionOperation) GetRESTHandlers() []Handler {
	return []Handler{
		newHTTPHandler(sessionsPath, http.MethodPost, o.create),
		newHTTPHandler(sessionPath, http.MethodGet, o.get),
		newHTTPHandler(sessionPath, http.MethodDelete, o.delete),
		newHTTPHandler(organizationPath, http.MethodPost, o.setupOrganization),
		newHTTPHandler(issuePath, http.MethodPost, o.issue),
		newHTTPHandler(walletPath, http.MethodPost, o.openWallet),
		newHTTPHandler(sessionVerify, http.MethodPost, o.verify),
		newHTTPHandler(resetPath, http.MethodPost, o.reset),
		newHTTPHandler(sessionDIDPath, http.MethodGet, o.resolveDID),
	}
}

func (o *SessionOperation) create(rw http.ResponseWriter, _ *http.Request) {
	s := o.manager.Create()

	writeJSON(o.logger, rw, http.StatusCreated, toSessionResponse(s.State()))
}

func (o *SessionOperation) get(rw http.ResponseWriter, req *http.Request) {
	s, ok := o.session(rw, req)
	if !ok {
		return
	}

	writeJSON(o.logger, rw, http.StatusOK, toSessionResponse(s.State()))
}

func (o *SessionOperation) delete(rw http.ResponseWriter, req *http.Request) {
	if err := o.manager.Delete(mux.Vars(req)["id"]); err != nil {
		writeError(o.logger, rw, err)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

func (o *SessionOperation) setupOrganization(rw http.ResponseWriter, req *http.Request) {
	s, ok := o.session(rw, req)
	if !ok {
		return
	}

	var body dto.SetupOrganizationRequest
	if err := decodeJSON(req, &body); err != nil {
		writeError(o.logger, rw, err)
		return
	}

	state, err := s.SetupOrganization(req.Context(), body.Domain)
	o.writeState(rw, state, err)
}

func (o *SessionOperation) issue(rw http.ResponseWriter, req *http.Request) {
	s, ok := o.session(rw, req)
	if !ok {
		return
	}

	// an empty body issues the default claims
	var body dto.IssueStepRequest
	if err := decodeJSON(req, &body); err != nil && !errors.Is(err, io.EOF) {
		writeError(o.logger, rw, err)
		return
	}

	state, err := s.IssueCredential(req.Context(), body.Claims)
	o.writeState(rw, state, err)
}

func (o *SessionOperation) openWallet(rw http.ResponseWriter, req *http.Request) {
	s, ok := o.session(rw, req)
	if !ok {
		return
	}

	state, err := s.OpenWallet()
	o.writeState(rw, state, err)
}

func (o *SessionOperation) verify(rw http.ResponseWriter, req *http.Request) {
	s, ok := o.session(rw, req)
	if !ok {
		return
	}

	state, err := s.Verify(req.Context())
	o.writeState(rw, state, err)
}

func (o *SessionOperation) reset(rw http.ResponseWriter, req *http.Request) {
	s, ok := o.session(rw, req)
	if !ok {
		return
	}

	writeJSON(o.logger, rw, http.StatusOK, toSessionResponse(s.Reset()))
}

// resolveDID resolves against the session's own documents first.
func (o *SessionOperation) resolveDID(rw http.ResponseWriter, req *http.Request) {
	s, ok := o.session(rw, req)
	if !ok {
		return
	}

	d, err := pathDID(req)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	doc, err := s.ResolveDID(req.Context(), d)
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	writeJSON(o.logger, rw, http.StatusOK, doc)
}

func (o *SessionOperation) session(rw http.ResponseWriter, req *http.Request) (*sandbox.Session, bool) {
	s, err := o.manager.Get(mux.Vars(req)["id"])
	if err != nil {
		writeError(o.logger, rw, err)
		return nil, false
	}
	return s, true
}

func (o *SessionOperation) writeState(rw http.ResponseWriter, state sandbox.State, err error) {
	if err != nil {
		writeError(o.logger, rw, err)
		return
	}

	writeJSON(o.logger, rw, http.StatusOK, toSessionResponse(state))
}

func toSessionResponse(state sandbox.State) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:           state.ID,
		Step:         int(state.Step),
		StepName:     state.Step.String(),
		Organization: state.Organization,
		Holder:       state.Holder,
		Credential:   state.Credential,
		Verified:     state.Verified,
	}
}
