// Package simulator fronts DID generation, credential issuance, verification
// and resolution with the latency a real network round trip would have.
package simulator

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/internal/log"
	"github.com/pilacorp/go-did-sandbox/internal/logfields"
	"github.com/pilacorp/go-did-sandbox/resolver"
)

// Latency is the artificial delay added to each operation.
type Latency struct {
	Generate time.Duration
	Issue    time.Duration
	Verify   time.Duration
	Resolve  time.Duration
}

// DefaultLatency is what a browser user of the sandbox would wait for.
var DefaultLatency = Latency{
	Generate: 800 * time.Millisecond,
	Issue:    1000 * time.Millisecond,
	Verify:   1500 * time.Millisecond,
	Resolve:  600 * time.Millisecond,
}

type Simulator struct {
	generator *did.Generator
	registry  *resolver.Registry
	resolver  *resolver.MockResolver
	record    bool
	latency   Latency
	metrics   *metrics
	logger    *zap.Logger
}

type options struct {
	keys       did.KeySource
	latency    Latency
	registerer prometheus.Registerer
	logger     *zap.Logger
}

// Option configures a Simulator.
type Option func(*options)

// WithLatency replaces DefaultLatency.
func WithLatency(l Latency) Option {
	return func(o *options) {
		o.latency = l
	}
}

// WithKeySource sets where generated DIDs get their keys from.
func WithKeySource(ks did.KeySource) Option {
	return func(o *options) {
		o.keys = ks
	}
}

// WithRegisterer registers the operation metrics with reg instead of a
// private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func New(opts ...Option) *Simulator {
	o := &options{
		keys:    did.RandomKeySource{},
		latency: DefaultLatency,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}
	if o.logger == nil {
		o.logger = log.New("simulator")
	}

	registry := resolver.NewRegistry()

	return &Simulator{
		generator: did.NewGenerator(did.WithKeySource(o.keys)),
		registry:  registry,
		resolver:  resolver.NewMockResolver(resolver.WithRegistry(registry)),
		record:    true,
		latency:   o.latency,
		metrics:   newMetrics(o.registerer),
		logger:    o.logger,
	}
}

// Registry holds the documents of every DID this simulator generated.
func (s *Simulator) Registry() *resolver.Registry {
	return s.registry
}

// Scope returns a Simulator sharing the generator, latency, metrics and logger
// of s that resolves against registry instead of the shared one. It never
// writes to registry; the caller decides which documents it holds.
func (s *Simulator) Scope(registry *resolver.Registry) *Simulator {
	scoped := *s
	scoped.registry = registry
	scoped.resolver = resolver.NewMockResolver(resolver.WithRegistry(registry))
	scoped.record = false
	return &scoped
}

// GenerateDID waits Latency.Generate, then creates a fresh DID of the given
// method. Unless s is scoped, a copy of the document is remembered so
// ResolveDID returns it unchanged.
func (s *Simulator) GenerateDID(ctx context.Context, method did.Method, domain string) (result *did.Result, err error) {
	defer func(start time.Time) { s.metrics.observe(OperationGenerate, start, err) }(time.Now())

	if err = sleep(ctx, s.latency.Generate); err != nil {
		return nil, err
	}

	result, err = s.generator.GenerateDID(ctx, method, domain)
	if err != nil {
		s.logger.Debug("DID generation failed",
			logfields.WithMethod(string(method)), logfields.WithDomain(domain), zap.Error(err))
		return nil, err
	}

	if s.record {
		s.registry.Put(result.Document)
	}

	s.logger.Info("DID generated", logfields.WithMethod(string(method)), logfields.WithDID(result.DID))

	return result, nil
}

// IssueCredential waits Latency.Issue, then issues a credential from issuer
// about subject carrying claims.
func (s *Simulator) IssueCredential(ctx context.Context, issuer, subject string, claims map[string]interface{},
	opts ...credential.IssueOpt) (vc *credential.Credential, err error) {
	defer func(start time.Time) { s.metrics.observe(OperationIssue, start, err) }(time.Now())

	if err = sleep(ctx, s.latency.Issue); err != nil {
		return nil, err
	}

	vc, err = credential.Issue(issuer, subject, claims, opts...)
	if err != nil {
		s.logger.Error("credential issuance failed", logfields.WithIssuer(issuer), zap.Error(err))
		return nil, err
	}

	s.logger.Info("credential issued",
		logfields.WithIssuer(issuer),
		logfields.WithSubject(subject),
		logfields.WithClaimKeys(lo.Keys(claims)))

	return vc, nil
}

// VerifyCredential waits Latency.Verify and reports whether vc carries a
// proof value. The error is only ever a context error.
func (s *Simulator) VerifyCredential(ctx context.Context, vc *credential.Credential) (verified bool, err error) {
	defer func(start time.Time) { s.metrics.observe(OperationVerify, start, err) }(time.Now())

	if err = sleep(ctx, s.latency.Verify); err != nil {
		return false, err
	}

	verified = credential.Verify(vc)
	if vc != nil {
		s.logger.Info("credential verified", logfields.WithIssuer(vc.Issuer), logfields.WithVerified(verified))
	}

	return verified, nil
}

// ResolveDID waits Latency.Resolve, then returns the document of d.
// Only did:key, did:web and did:ethr resolve.
func (s *Simulator) ResolveDID(ctx context.Context, d string) (doc *did.Document, err error) {
	defer func(start time.Time) { s.metrics.observe(OperationResolve, start, err) }(time.Now())

	if err = sleep(ctx, s.latency.Resolve); err != nil {
		return nil, err
	}

	doc, err = s.resolver.Resolve(ctx, d)
	if err != nil {
		s.logger.Debug("DID resolution failed", logfields.WithDID(d), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("DID resolved", logfields.WithDID(d))

	return doc, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
