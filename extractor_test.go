package idtoken

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AuthHeaderTokenExtractor(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		wantToken string
		wantError string
	}{
		{
			name: "empty / no header",
		},
		{
			name:      "token in header",
			header:    "Bearer i-am-token",
			wantToken: "i-am-token",
		},
		{
			name:      "scheme is case insensitive",
			header:    "bearer i-am-token",
			wantToken: "i-am-token",
		},
		{
			name:      "no bearer",
			header:    "i-am-token",
			wantError: "authorization header format must be Bearer {token}",
		},
		{
			name:      "other scheme",
			header:    "Basic dXNlcjpwYXNz",
			wantError: "authorization header format must be Bearer {token}",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if testCase.header != "" {
				r.Header.Set("Authorization", testCase.header)
			}

			gotToken, err := AuthHeaderTokenExtractor(r)
			if testCase.wantError != "" {
				assert.EqualError(t, err, testCase.wantError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, testCase.wantToken, gotToken)
		})
	}
}

func Test_CookieTokenExtractor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	gotToken, err := CookieTokenExtractor("g_csrf")(r)
	assert.NoError(t, err)
	assert.Empty(t, gotToken)

	r.AddCookie(&http.Cookie{Name: "g_credential", Value: "i-am-token"})
	gotToken, err = CookieTokenExtractor("g_credential")(r)
	assert.NoError(t, err)
	assert.Equal(t, "i-am-token", gotToken)
}

func Test_FormTokenExtractor(t *testing.T) {
	form := url.Values{"credential": {"i-am-token"}, "g_csrf_token": {"x"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	gotToken, err := FormTokenExtractor("credential")(r)
	assert.NoError(t, err)
	assert.Equal(t, "i-am-token", gotToken)

	gotToken, err = FormTokenExtractor("credential")(httptest.NewRequest(http.MethodGet, "/login?credential=x", nil))
	assert.NoError(t, err)
	assert.Empty(t, gotToken, "only POST bodies are read")
}

func Test_ParameterTokenExtractor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?id_token=i-am-token", nil)

	gotToken, err := ParameterTokenExtractor("id_token")(r)
	assert.NoError(t, err)
	assert.Equal(t, "i-am-token", gotToken)
}

func Test_MultiTokenExtractor(t *testing.T) {
	noExtractorErr := errors.New("extractor failed")

	empty := func(*http.Request) (string, error) { return "", nil }
	failing := func(*http.Request) (string, error) { return "", noExtractorErr }
	found := func(*http.Request) (string, error) { return "i-am-token", nil }

	r := httptest.NewRequest(http.MethodGet, "/", nil)

	gotToken, err := MultiTokenExtractor(empty, found, failing)(r)
	assert.NoError(t, err)
	assert.Equal(t, "i-am-token", gotToken)

	_, err = MultiTokenExtractor(empty, failing, found)(r)
	assert.ErrorIs(t, err, noExtractorErr)

	gotToken, err = MultiTokenExtractor()(r)
	assert.NoError(t, err)
	assert.Empty(t, gotToken)
}
