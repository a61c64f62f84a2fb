// Package sandbox walks one user through the issuer, holder and verifier
// roles in four fixed steps.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/internal/logfields"
	"github.com/pilacorp/go-did-sandbox/resolver"
	"github.com/pilacorp/go-did-sandbox/simulator"
)

var (
	ErrStepOutOfOrder   = errors.New("action not allowed at the current step")
	ErrActionInProgress = errors.New("another action is in progress")
	ErrSessionReset     = errors.New("session was reset while the action was running")
)

type Step int

const (
	StepOrganizationSetup Step = iota
	StepIssueCredential
	StepWalletDisplay
	StepVerification
)

var stepNames = [...]string{"OrganizationSetup", "IssueCredential", "WalletDisplay", "Verification"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// DefaultClaims are issued when IssueCredential is given none.
var DefaultClaims = map[string]interface{}{
	"name": "Alice",
	"role": "Engineer",
}

// Identity is what a session needs from the simulator.
type Identity interface {
	GenerateDID(ctx context.Context, method did.Method, domain string) (*did.Result, error)
	IssueCredential(ctx context.Context, issuer, subject string, claims map[string]interface{},
		opts ...credential.IssueOpt) (*credential.Credential, error)
	VerifyCredential(ctx context.Context, vc *credential.Credential) (bool, error)
	ResolveDID(ctx context.Context, d string) (*did.Document, error)
}

// IdentityScope returns the Identity a session works through. It resolves
// against registry, which holds only that session's documents.
type IdentityScope func(registry *resolver.Registry) Identity

// SimulatorScope scopes sim to each session's registry.
func SimulatorScope(sim *simulator.Simulator) IdentityScope {
	return func(registry *resolver.Registry) Identity {
		return sim.Scope(registry)
	}
}

// State is a point-in-time copy of a session.
type State struct {
	ID           string
	Step         Step
	Organization *did.Result
	Holder       *did.Result
	Credential   *credential.Credential
	Verified     *bool
}

// Session is one walkthrough. Actions run without holding the lock; only one
// may be in flight at a time, and one that is still running when Reset is
// called has its result dropped. The documents of the organization and holder
// DIDs live in a registry owned by the session.
type Session struct {
	id       string
	identity Identity
	registry *resolver.Registry
	logger   *zap.Logger

	mu    sync.Mutex
	step  Step
	epoch uint64
	busy  bool

	organization *did.Result
	holder       *did.Result
	credential   *credential.Credential
	verified     *bool
}

func NewSession(id string, scope IdentityScope, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := resolver.NewRegistry()
	return &Session{
		id:       id,
		identity: scope(registry),
		registry: registry,
		logger:   logger.With(logfields.WithSessionID(id)),
	}
}

func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

func (s *Session) state() State {
	return State{
		ID:           s.id,
		Step:         s.step,
		Organization: s.organization,
		Holder:       s.holder,
		Credential:   s.credential,
		Verified:     s.verified,
	}
}

// SetupOrganization creates the issuing organization's did:web for domain.
func (s *Session) SetupOrganization(ctx context.Context, domain string) (State, error) {
	epoch, err := s.begin(StepOrganizationSetup)
	if err != nil {
		return State{}, err
	}

	org, err := s.identity.GenerateDID(ctx, did.MethodWeb, domain)
	if err != nil {
		s.abort(epoch)
		return State{}, err
	}

	return s.commit(epoch, func() {
		s.registry.Put(org.Document)
		s.organization = org
		s.step = StepIssueCredential
	})
}

// IssueCredential creates a fresh did:key for the holder and issues claims to
// it from the organization.
func (s *Session) IssueCredential(ctx context.Context, claims map[string]interface{}) (State, error) {
	epoch, err := s.begin(StepIssueCredential)
	if err != nil {
		return State{}, err
	}

	current, err := s.current(epoch)
	if err != nil {
		return State{}, err
	}
	issuer := current.Organization.DID

	if len(claims) == 0 {
		claims = DefaultClaims
	}

	holder, err := s.identity.GenerateDID(ctx, did.MethodKey, "")
	if err != nil {
		s.abort(epoch)
		return State{}, err
	}

	vc, err := s.identity.IssueCredential(ctx, issuer, holder.DID, claims)
	if err != nil {
		s.abort(epoch)
		return State{}, err
	}

	return s.commit(epoch, func() {
		s.registry.Put(holder.Document)
		s.holder = holder
		s.credential = vc
		s.step = StepWalletDisplay
	})
}

// OpenWallet shows the held credential and moves on to verification.
func (s *Session) OpenWallet() (State, error) {
	epoch, err := s.begin(StepWalletDisplay)
	if err != nil {
		return State{}, err
	}

	return s.commit(epoch, func() {
		s.step = StepVerification
	})
}

// Verify checks the held credential. It may be repeated; the session stays
// at StepVerification.
func (s *Session) Verify(ctx context.Context) (State, error) {
	epoch, err := s.begin(StepVerification)
	if err != nil {
		return State{}, err
	}

	current, err := s.current(epoch)
	if err != nil {
		return State{}, err
	}

	verified, err := s.identity.VerifyCredential(ctx, current.Credential)
	if err != nil {
		s.abort(epoch)
		return State{}, err
	}

	return s.commit(epoch, func() {
		s.verified = &verified
	})
}

// ResolveDID resolves d, answering with this session's own document for its
// organization and holder DIDs. It is not a step and may be called at any
// time.
func (s *Session) ResolveDID(ctx context.Context, d string) (*did.Document, error) {
	return s.identity.ResolveDID(ctx, d)
}

// Reset returns to StepOrganizationSetup and forgets everything, including
// the session's documents.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.discard()

	s.logger.Debug("session reset")

	return State{ID: s.id, Step: s.step}
}

// close discards the session's state when it is removed from a Manager.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.discard()
}

func (s *Session) discard() {
	s.epoch++
	s.busy = false
	s.step = StepOrganizationSetup
	s.organization = nil
	s.holder = nil
	s.credential = nil
	s.verified = nil
	s.registry.Clear()
}

func (s *Session) begin(expected Step) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return 0, ErrActionInProgress
	}
	if s.step != expected {
		return 0, fmt.Errorf("%w: at %s, need %s", ErrStepOutOfOrder, s.step, expected)
	}

	s.busy = true
	return s.epoch, nil
}

func (s *Session) abort(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch == epoch {
		s.busy = false
	}
}

func (s *Session) commit(epoch uint64, apply func()) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return State{}, ErrSessionReset
	}

	s.busy = false
	apply()

	s.logger.Debug("step completed", logfields.WithStep(s.step.String()))

	return s.state(), nil
}

// current returns the state seen by the action started at epoch.
func (s *Session) current(epoch uint64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return State{}, ErrSessionReset
	}
	return s.state(), nil
}
