package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signin-tools/go-idtoken"
	"github.com/signin-tools/go-idtoken/internal/testkeys"
)

const audience = "1234.apps.googleusercontent.com"

func newCertsServer(t *testing.T, pairs ...*testkeys.Pair) *httptest.Server {
	t.Helper()

	body := testkeys.CertsBody(t, pairs...)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestVerifyCommand(t *testing.T) {
	k1 := testkeys.New(t, "k1")
	server := newCertsServer(t, k1)
	token := k1.Sign(t, testkeys.Claims(audience))

	t.Run("token as argument", func(t *testing.T) {
		out, err := run(t, "", "verify", "--certs-url", server.URL, "--audience", audience, token)
		require.NoError(t, err)

		var claims idtoken.Claims
		require.NoError(t, json.Unmarshal([]byte(out), &claims))
		assert.Equal(t, "110169484474386276334", claims.Subject)
		assert.Equal(t, "jane@example.com", claims.Email)
	})

	t.Run("token on stdin", func(t *testing.T) {
		out, err := run(t, token+"\n", "verify", "--certs-url", server.URL)
		require.NoError(t, err)
		assert.Contains(t, out, `"aud": "`+audience+`"`)
	})

	t.Run("policy failure", func(t *testing.T) {
		_, err := run(t, "", "verify", "--certs-url", server.URL, "--hosted-domain", "example.com", token)
		assert.ErrorIs(t, err, idtoken.ErrInvalidHostedDomain)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := run(t, "", "verify", "--certs-url", server.URL)
		assert.EqualError(t, err, "no token given")
	})

	t.Run("tokeninfo", func(t *testing.T) {
		tokenInfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "opaque", r.URL.Query().Get("id_token"))
			_, _ = w.Write([]byte(`{"iss":"accounts.google.com","sub":"7","azp":"` + audience + `","aud":"` + audience + `","iat":"1433978353","exp":"1433981953"}`))
		}))
		t.Cleanup(tokenInfo.Close)

		out, err := run(t, "", "verify", "--tokeninfo", "--tokeninfo-url", tokenInfo.URL, "--audience", audience, "opaque")
		require.NoError(t, err)
		assert.Contains(t, out, `"sub": "7"`)
	})
}

func TestKeysCommand(t *testing.T) {
	server := newCertsServer(t, testkeys.New(t, "k2"), testkeys.New(t, "k1"))

	out, err := run(t, "", "keys", "--certs-url", server.URL)
	require.NoError(t, err)

	var keys keysOutput
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, []string{"k1", "k2"}, keys.Keys)
	assert.Equal(t, "ready", keys.State)
}
