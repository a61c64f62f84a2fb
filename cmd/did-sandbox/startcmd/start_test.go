package startcmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pilacorp/go-did-sandbox/config"
)

type mockServer struct {
	host     string
	router   http.Handler
	err      error
	shutdown bool
}

func (s *mockServer) ListenAndServe(host string, router http.Handler) error {
	s.host = host
	s.router = router
	return s.err
}

func (s *mockServer) Shutdown(context.Context) error {
	s.shutdown = true
	return nil
}

func TestStartCmdContents(t *testing.T) {
	startCmd := GetStartCmd(&mockServer{})

	require.Equal(t, "start", startCmd.Use)
	require.Equal(t, "Start the DID sandbox server", startCmd.Short)

	for _, name := range []string{hostURLFlagName, keySourceFlagName, "log-level", "config-file"} {
		require.NotNil(t, startCmd.Flags().Lookup(name), name)
	}
}

func TestStartCmdWithFlags(t *testing.T) {
	srv := &mockServer{}
	startCmd := GetStartCmd(srv)

	startCmd.SetArgs([]string{"--" + hostURLFlagName, "localhost:9090", "--" + keySourceFlagName, "secp256k1"})
	require.NoError(t, startCmd.Execute())

	require.Equal(t, "localhost:9090", srv.host)
	require.True(t, srv.shutdown)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", gjson.Get(rec.Body.String(), "status").String())
}

func TestStartCmdWithEnv(t *testing.T) {
	t.Setenv(config.EnvHostURL, "localhost:7070")
	t.Setenv(config.EnvLatencyScale, "0")

	srv := &mockServer{}
	startCmd := GetStartCmd(srv)
	startCmd.SetArgs([]string{})

	require.NoError(t, startCmd.Execute())
	require.Equal(t, "localhost:7070", srv.host)
}

func TestStartCmdErrors(t *testing.T) {
	t.Run("invalid key source", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})
		startCmd.SetArgs([]string{"--" + keySourceFlagName, "hsm"})

		require.EqualError(t, startCmd.Execute(), `unknown key source "hsm"`)
	})

	t.Run("missing config file", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})
		startCmd.SetArgs([]string{"--config-file", "/does/not/exist.toml"})

		require.Error(t, startCmd.Execute())
	})

	t.Run("listen failure", func(t *testing.T) {
		srv := &mockServer{err: errors.New("address in use")}
		startCmd := GetStartCmd(srv)
		startCmd.SetArgs([]string{})

		require.EqualError(t, startCmd.Execute(), "address in use")
		require.True(t, srv.shutdown)
	})
}

func TestHTTPServerShutdownBeforeListen(t *testing.T) {
	srv := &HTTPServer{}

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.ListenAndServe("localhost:0", http.NotFoundHandler()))
}
