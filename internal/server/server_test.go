package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/resolver"
	"github.com/pilacorp/go-did-sandbox/sandbox"
	"github.com/pilacorp/go-did-sandbox/simulator"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	sim := simulator.New(
		simulator.WithLatency(simulator.Latency{}),
		simulator.WithRegisterer(reg),
		simulator.WithLogger(zap.NewNop()),
	)
	srv := New(sim, sandbox.NewManager(sandbox.SimulatorScope(sim), zap.NewNop()),
		WithGatherer(reg),
		WithLogger(zap.NewNop()),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func do(t *testing.T, method, url string, body interface{}) (int, string) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(raw)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodGet, ts.URL+"/healthcheck", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", gjson.Get(body, "status").String())
	assert.True(t, gjson.Get(body, "currentTime").Exists())
}

func TestGenerateDID(t *testing.T) {
	ts := newTestServer(t)

	t.Run("web", func(t *testing.T) {
		status, body := do(t, http.MethodPost, ts.URL+"/api/v1/dids",
			map[string]string{"method": "web", "domain": "example.com"})
		require.Equal(t, http.StatusCreated, status, body)

		assert.Equal(t, "did:web:example.com", gjson.Get(body, "did").String())
		assert.Equal(t, "did:web:example.com", gjson.Get(body, "document.id").String())
		assert.Equal(t, "did:web:example.com", gjson.Get(body, "document.verificationMethod.0.controller").String())
		assert.Regexp(t, `^0x[0-9a-f]{64}$`, gjson.Get(body, "keyPair.privateKey").String())
	})

	t.Run("key", func(t *testing.T) {
		status, body := do(t, http.MethodPost, ts.URL+"/api/v1/dids", map[string]string{"method": "key"})
		require.Equal(t, http.StatusCreated, status, body)
		assert.True(t, strings.HasPrefix(gjson.Get(body, "did").String(), "did:key:z"))
	})

	t.Run("unsupported method", func(t *testing.T) {
		status, body := do(t, http.MethodPost, ts.URL+"/api/v1/dids", map[string]string{"method": "ion"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "unsupported-method", gjson.Get(body, "code").String())
	})

	t.Run("web without domain", func(t *testing.T) {
		status, body := do(t, http.MethodPost, ts.URL+"/api/v1/dids", map[string]string{"method": "web"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "bad-request", gjson.Get(body, "code").String())
	})

	t.Run("invalid body", func(t *testing.T) {
		status, body := do(t, http.MethodPost, ts.URL+"/api/v1/dids", "{")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "bad-request", gjson.Get(body, "code").String())
	})
}

func TestResolveDID(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodGet, ts.URL+"/api/v1/dids/did:ethr:0xb9c5714089478a327f09197987f16f9e5d936e8a", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "did:ethr:0xb9c5714089478a327f09197987f16f9e5d936e8a", gjson.Get(body, "id").String())

	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/dids/did:ion:123", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unsupported-method", gjson.Get(body, "code").String())
	assert.Contains(t, gjson.Get(body, "message").String(), "DID Method not supported in this sandbox")
}

func TestResolveDIDEncodedPath(t *testing.T) {
	ts := newTestServer(t)

	for _, d := range []string{
		"did:web:example.com%3A8080",
		"did:web:example.com%3A8080:users:alice",
		"did:web:example.com/users",
	} {
		t.Run(d, func(t *testing.T) {
			status, body := do(t, http.MethodGet, ts.URL+"/api/v1/dids/"+url.PathEscape(d), nil)
			require.Equal(t, http.StatusOK, status, body)
			assert.Equal(t, d, gjson.Get(body, "id").String())

			doc, err := resolver.NewHTTPResolver(ts.URL, resolver.WithMaxRetries(0)).Resolve(context.Background(), d)
			require.NoError(t, err)
			assert.Equal(t, d, doc.ID)
		})
	}
}

func TestHTTPResolver(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/dids",
		map[string]string{"method": "web", "domain": "example.com"})
	require.Equal(t, http.StatusCreated, status, body)

	r := resolver.NewHTTPResolver(ts.URL, resolver.WithMaxRetries(0))

	doc, err := r.Resolve(context.Background(), "did:web:example.com")
	require.NoError(t, err)
	assert.Equal(t, "did:web:example.com", doc.ID)
	assert.Equal(t, gjson.Get(body, "document.verificationMethod.0.publicKeyJwk.x").String(),
		doc.VerificationMethod[0].PublicKeyJwk.X)

	_, err = r.Resolve(context.Background(), "did:ion:123")
	assert.ErrorIs(t, err, did.ErrUnsupportedMethod)
}

func TestCredentials(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/credentials", map[string]interface{}{
		"issuer":  "did:web:example.com",
		"subject": "did:key:z123",
		"claims":  map[string]string{"name": "Alice", "role": "Engineer"},
		"types":   []string{"UniversityDegreeCredential"},
	})
	require.Equal(t, http.StatusCreated, status, body)

	assert.Equal(t, "did:web:example.com", gjson.Get(body, "issuer").String())
	assert.Equal(t, "did:key:z123", gjson.Get(body, "credentialSubject.id").String())
	assert.Equal(t, "Alice", gjson.Get(body, "credentialSubject.name").String())
	assert.Equal(t, `["VerifiableCredential","UniversityDegreeCredential"]`, gjson.Get(body, "type").Raw)
	assert.NotEmpty(t, gjson.Get(body, "proof.jws").String())

	vc, err := credential.Parse([]byte(body))
	require.NoError(t, err)

	t.Run("verify", func(t *testing.T) {
		status, resp := do(t, http.MethodPost, ts.URL+"/api/v1/credentials/verify",
			map[string]interface{}{"credential": vc})
		require.Equal(t, http.StatusOK, status, resp)
		assert.True(t, gjson.Get(resp, "verified").Bool())
		assert.False(t, gjson.Get(resp, "schemaErrors").Exists())
	})

	t.Run("verify without jws", func(t *testing.T) {
		stripped := *vc
		proof := *vc.Proof
		proof.JWS = ""
		stripped.Proof = &proof

		status, resp := do(t, http.MethodPost, ts.URL+"/api/v1/credentials/verify",
			map[string]interface{}{"credential": &stripped})
		require.Equal(t, http.StatusOK, status, resp)
		assert.False(t, gjson.Get(resp, "verified").Bool())
		assert.False(t, gjson.Get(resp, "schemaErrors").Exists())
	})

	t.Run("verify reports schema violations", func(t *testing.T) {
		broken := *vc
		broken.Issuer = ""

		status, resp := do(t, http.MethodPost, ts.URL+"/api/v1/credentials/verify",
			map[string]interface{}{"credential": &broken})
		require.Equal(t, http.StatusOK, status, resp)
		assert.True(t, gjson.Get(resp, "verified").Bool())
		assert.True(t, gjson.Get(resp, "schemaErrors").IsArray())
	})

	t.Run("digest", func(t *testing.T) {
		status, resp := do(t, http.MethodPost, ts.URL+"/api/v1/credentials/digest",
			map[string]interface{}{"credential": vc})
		require.Equal(t, http.StatusOK, status, resp)

		expected, err := credential.Digest(vc)
		require.NoError(t, err)
		assert.Equal(t, expected, gjson.Get(resp, "digest").String())
	})

	t.Run("missing credential", func(t *testing.T) {
		status, resp := do(t, http.MethodPost, ts.URL+"/api/v1/credentials/verify", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "bad-request", gjson.Get(resp, "code").String())
	})

	t.Run("missing issuer", func(t *testing.T) {
		status, _ := do(t, http.MethodPost, ts.URL+"/api/v1/credentials",
			map[string]interface{}{"subject": "did:key:z123"})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestSessionWalkthrough(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "OrganizationSetup", gjson.Get(body, "stepName").String())

	base := ts.URL + "/api/v1/sessions/" + gjson.Get(body, "id").String()

	status, body = do(t, http.MethodPost, base+"/wallet", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", gjson.Get(body, "code").String())

	status, body = do(t, http.MethodPost, base+"/organization", map[string]string{"domain": "example.com"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, int64(1), gjson.Get(body, "step").Int())
	assert.Equal(t, "did:web:example.com", gjson.Get(body, "organization.did").String())

	status, body = do(t, http.MethodPost, base+"/issue",
		map[string]interface{}{"claims": map[string]string{"name": "Alice", "role": "Engineer"}})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "WalletDisplay", gjson.Get(body, "stepName").String())
	assert.Equal(t, "Alice", gjson.Get(body, "credential.credentialSubject.name").String())
	assert.Equal(t, gjson.Get(body, "holder.did").String(), gjson.Get(body, "credential.credentialSubject.id").String())

	status, body = do(t, http.MethodPost, base+"/wallet", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Verification", gjson.Get(body, "stepName").String())

	status, body = do(t, http.MethodPost, base+"/verify", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.True(t, gjson.Get(body, "verified").Bool())

	status, body = do(t, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, int64(0), gjson.Get(body, "step").Int())
	assert.False(t, gjson.Get(body, "organization").Exists())
	assert.False(t, gjson.Get(body, "credential").Exists())
	assert.False(t, gjson.Get(body, "verified").Exists())

	status, _ = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not-found", gjson.Get(body, "code").String())
}

func TestSessionResolveIsolation(t *testing.T) {
	ts := newTestServer(t)

	newSession := func() (string, string) {
		status, body := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", nil)
		require.Equal(t, http.StatusCreated, status, body)
		base := ts.URL + "/api/v1/sessions/" + gjson.Get(body, "id").String()

		status, body = do(t, http.MethodPost, base+"/organization", map[string]string{"domain": "example.com"})
		require.Equal(t, http.StatusOK, status, body)

		return base, gjson.Get(body, "organization.document.verificationMethod.0.publicKeyJwk.x").String()
	}

	baseA, keyA := newSession()
	baseB, keyB := newSession()
	require.NotEqual(t, keyA, keyB)

	status, body := do(t, http.MethodGet, baseA+"/dids/did:web:example.com", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, keyA, gjson.Get(body, "verificationMethod.0.publicKeyJwk.x").String())

	status, body = do(t, http.MethodGet, baseB+"/dids/did:web:example.com", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, keyB, gjson.Get(body, "verificationMethod.0.publicKeyJwk.x").String())

	// session documents never reach the shared resolver
	status, body = do(t, http.MethodGet, ts.URL+"/api/v1/dids/did:web:example.com", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEqual(t, keyA, gjson.Get(body, "verificationMethod.0.publicKeyJwk.x").String())
	assert.NotEqual(t, keyB, gjson.Get(body, "verificationMethod.0.publicKeyJwk.x").String())

	status, _ = do(t, http.MethodPost, baseA+"/reset", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, http.MethodGet, baseA+"/dids/did:web:example.com", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEqual(t, keyA, gjson.Get(body, "verificationMethod.0.publicKeyJwk.x").String())

	status, _ = do(t, http.MethodDelete, baseB, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, http.MethodGet, baseB+"/dids/did:web:example.com", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionIssueDefaultClaims(t *testing.T) {
	ts := newTestServer(t)

	_, body := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", nil)
	base := ts.URL + "/api/v1/sessions/" + gjson.Get(body, "id").String()

	status, _ := do(t, http.MethodPost, base+"/organization", map[string]string{"domain": "example.com"})
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, http.MethodPost, base+"/issue", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Engineer", gjson.Get(body, "credential.credentialSubject.role").String())
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)

	status, _ := do(t, http.MethodPost, ts.URL+"/api/v1/dids", map[string]string{"method": "key"})
	require.Equal(t, http.StatusCreated, status)

	status, body := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `did_sandbox_operations_total{operation="generate",outcome="success"} 1`)
	assert.Contains(t, body, "did_sandbox_operation_duration_seconds")
}
