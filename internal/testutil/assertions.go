package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response status against the expected code.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "wrong status code")
}

// AssertJSONResponse reads the whole body and decodes it into v, failing
// the test with the raw body attached when the payload is not valid JSON.
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "reading response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "decoding response body: %s", string(body))
}

// AssertErrorResponse checks both the status code and that the plain-text
// error body carries the given message.
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "wrong status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "reading response body")
	assert.Contains(t, string(body), expectedMessage, "wrong error message")
}
