package signing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "s3cret"
	testThreshold = int64(120000)
)

var fixedNow = time.UnixMilli(1700000000000)

func newTestVerifier() *Verifier {
	return NewVerifier(testSecret, testThreshold).WithClock(func() time.Time { return fixedNow })
}

func TestSignKnownVector(t *testing.T) {
	got := Sign("POST", `{"a":1}`, "1700000000000", "s3cret")
	assert.Equal(t, "c6f1e61794539a50fb5a7cb7c435f3c8975c47b0b261444c759a9d447c7fadb4", got)
}

func TestSignDeterministic(t *testing.T) {
	inputs := [][4]string{
		{"GET", "", "1700000000000", "secret"},
		{"POST", `{"name":"read"}`, "1", "k"},
		{"DELETE", "a|b", "99", ""},
	}
	for _, in := range inputs {
		first := Sign(in[0], in[1], in[2], in[3])
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Sign(in[0], in[1], in[2], in[3]))
		}
		assert.Equal(t, strings.ToLower(first), first)
		assert.Len(t, first, 64)
	}
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	v := newTestVerifier()
	ts := "1700000000000"
	sig := Sign("POST", `{"a":1}`, ts, testSecret)

	assert.NoError(t, v.Verify("POST", []byte(`{"a":1}`), sig, ts))
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	ts := "1700000000000"
	sig := Sign("POST", `{"a":1}`, ts, "s3cret")

	v := NewVerifier("not-the-secret", testThreshold).WithClock(func() time.Time { return fixedNow })
	assert.ErrorIs(t, v.Verify("POST", []byte(`{"a":1}`), sig, ts), ErrInvalidSignature)
}

func TestVerifyTamperSensitivity(t *testing.T) {
	v := newTestVerifier()
	method, body, ts := "POST", `{"a":1}`, "1700000000000"
	sig := Sign(method, body, ts, testSecret)

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'x' {
			b[i] = 'y'
		} else {
			b[i] = 'x'
		}
		return string(b)
	}

	for i := range body {
		err := v.Verify(method, []byte(flip(body, i)), sig, ts)
		assert.ErrorIs(t, err, ErrInvalidSignature, "body index %d", i)
	}
	for i := range method {
		err := v.Verify(flip(method, i), []byte(body), sig, ts)
		assert.ErrorIs(t, err, ErrInvalidSignature, "method index %d", i)
	}

	// Timestamp digits are swapped for other digits so the value stays numeric and fresh.
	for i := len(ts) - 4; i < len(ts); i++ {
		b := []byte(ts)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		err := v.Verify(method, []byte(body), sig, string(b))
		assert.ErrorIs(t, err, ErrInvalidSignature, "timestamp index %d", i)
	}
}

func TestVerifySignatureIsCaseSensitive(t *testing.T) {
	v := newTestVerifier()
	ts := "1700000000000"
	sig := Sign("GET", "", ts, testSecret)

	assert.ErrorIs(t, v.Verify("GET", nil, strings.ToUpper(sig), ts), ErrInvalidSignature)
}

func TestVerifyFreshnessBoundary(t *testing.T) {
	v := newTestVerifier()
	now := fixedNow.UnixMilli()

	cases := []struct {
		name string
		ts   int64
		err  error
	}{
		{"past edge", now - testThreshold, nil},
		{"past beyond", now - testThreshold - 1, ErrTimestampExpired},
		{"future edge", now + testThreshold, nil},
		{"future beyond", now + testThreshold + 1, ErrTimestampExpired},
		{"now", now, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := strconv.FormatInt(tc.ts, 10)
			sig := Sign("GET", "", ts, testSecret)
			err := v.Verify("GET", nil, sig, ts)
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestVerifyMissingCredentials(t *testing.T) {
	v := newTestVerifier()
	ts := "1700000000000"
	sig := Sign("POST", "{}", ts, testSecret)

	assert.ErrorIs(t, v.Verify("POST", []byte("{}"), sig, ""), ErrMissingCredentials)
	assert.ErrorIs(t, v.Verify("POST", []byte("{}"), "", ts), ErrMissingCredentials)
	assert.ErrorIs(t, v.Verify("GET", nil, "", ""), ErrMissingCredentials)
}

func TestVerifyRejectsNonNumericTimestamp(t *testing.T) {
	v := newTestVerifier()
	for _, ts := range []string{"soon", "NaN", "Inf", "-Inf"} {
		sig := Sign("GET", "", ts, testSecret)
		assert.ErrorIs(t, v.Verify("GET", nil, sig, ts), ErrTimestampExpired, ts)
	}
}

func TestVerifyRequestRestoresBody(t *testing.T) {
	v := newTestVerifier()
	body := `{"name":"read","description":"Read access"}`
	ts := "1700000000000"

	req := httptest.NewRequest(http.MethodPost, "/api/permissions", strings.NewReader(body))
	req.Header.Set(HeaderSignature, Sign(http.MethodPost, body, ts, testSecret))
	req.Header.Set(HeaderTimestamp, ts)

	require.NoError(t, v.VerifyRequest(req))

	again, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(again))
}

func TestVerifyRequestMissingHeaders(t *testing.T) {
	v := newTestVerifier()

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set(HeaderSignature, "abc")
	assert.ErrorIs(t, v.VerifyRequest(req), ErrMissingCredentials)

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set(HeaderTimestamp, "1700000000000")
	assert.ErrorIs(t, v.VerifyRequest(req), ErrMissingCredentials)
}

func TestAuthErrorMessagesDoNotLeakSecret(t *testing.T) {
	for _, err := range []error{ErrMissingCredentials, ErrTimestampExpired, ErrInvalidSignature} {
		assert.NotContains(t, err.Error(), testSecret)
	}
}

type countingReader struct {
	r    io.Reader
	read int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += n
	return n, err
}

func TestVerifyRequestRejectsStaleBeforeReadingBody(t *testing.T) {
	v := newTestVerifier()
	body := &countingReader{r: strings.NewReader(strings.Repeat("x", 8<<20))}

	req := httptest.NewRequest(http.MethodPost, "/api/permissions", body)
	req.Header.Set(HeaderSignature, "anything")
	req.Header.Set(HeaderTimestamp, "1")

	assert.ErrorIs(t, v.VerifyRequest(req), ErrTimestampExpired)
	assert.Zero(t, body.read)
}

func TestVerifyRequestBodyLimit(t *testing.T) {
	v := newTestVerifier().WithMaxBodyBytes(16)
	ts := "1700000000000"

	small := `{"a":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/permissions", strings.NewReader(small))
	req.Header.Set(HeaderSignature, Sign(http.MethodPost, small, ts, testSecret))
	req.Header.Set(HeaderTimestamp, ts)
	require.NoError(t, v.VerifyRequest(req))

	large := strings.Repeat("x", 17)
	req = httptest.NewRequest(http.MethodPost, "/api/permissions", strings.NewReader(large))
	req.Header.Set(HeaderSignature, Sign(http.MethodPost, large, ts, testSecret))
	req.Header.Set(HeaderTimestamp, ts)

	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, v.VerifyRequest(req), &tooLarge)
}
