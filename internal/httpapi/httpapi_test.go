package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlCramer/msparse"
	"github.com/AlCramer/msparse/internal/httpapi/auth"
	"github.com/AlCramer/msparse/internal/lex"
)

func newTestAPI() *API {
	return &API{Parser: msparse.New(lex.New())}
}

func TestParseEndpointNoGuard(t *testing.T) {
	api := newTestAPI()
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	body, _ := json.Marshal(ParseRequest{Text: "the dog runs"})
	resp, err := http.Post(srv.URL+"/parse", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out ParseResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.CorrelationID)
}

func TestParseEndpointMalformedBody(t *testing.T) {
	api := newTestAPI()
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/parse", "application/json", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParseEndpointRequiresAuthWhenGuarded(t *testing.T) {
	guard, err := auth.NewGuard("s3cret")
	require.NoError(t, err)

	api := newTestAPI()
	api.Guard = guard
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	body, _ := json.Marshal(ParseRequest{Text: "hello"})
	resp, err := http.Post(srv.URL+"/parse", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	tok, err := guard.Issue(time.Minute)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/parse", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
