package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-show-booking/internal/middleware"
)

// issueFlash sets a message through f and returns the resulting cookie.
func issueFlash(t *testing.T, f *Flasher, category, message string) *http.Cookie {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, f.Set(e.NewContext(httptest.NewRequest(http.MethodGet, "/book/99", nil), rec), category, message))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.FlashCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	return cookies[0]
}

// readFlash pops the message carried by ck through f.
func readFlash(f *Flasher, ck *http.Cookie) ([]FlashMessage, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ck != nil {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return f.Pop(echo.New().NewContext(req, rec)), rec
}

func TestFlash_RoundTrip(t *testing.T) {
	f, err := NewFlasher("test-secret")
	require.NoError(t, err)

	ck := issueFlash(t, f, FlashDanger, "Show not found")
	assert.NotContains(t, ck.Value, "Show not found", "message travels inside a signed token")
	assert.Len(t, strings.Split(ck.Value, "."), 3)

	msgs, rec := readFlash(f, ck)
	assert.Equal(t, []FlashMessage{{Category: FlashDanger, Message: "Show not found"}}, msgs)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0, "cookie is cleared after reading")
}

func TestFlash_RandomKeyWhenSecretEmpty(t *testing.T) {
	a, err := NewFlasher("")
	require.NoError(t, err)
	b, err := NewFlasher("")
	require.NoError(t, err)

	ck := issueFlash(t, a, FlashSuccess, "hello")
	msgs, _ := readFlash(a, ck)
	assert.Len(t, msgs, 1)

	msgs, _ = readFlash(b, ck)
	assert.Empty(t, msgs, "keys differ between instances")
}

func TestFlash_RejectsUntrustedCookies(t *testing.T) {
	f, err := NewFlasher("test-secret")
	require.NoError(t, err)
	other, err := NewFlasher("other-secret")
	require.NoError(t, err)

	valid := issueFlash(t, f, FlashDanger, "Show not found")
	parts := strings.Split(valid.Value, ".")
	require.Len(t, parts, 3)

	cases := []struct {
		name  string
		value string
	}{
		{"plain text", "danger|Show not found"},
		{"not a jwt", "no-separator"},
		{"tampered payload", parts[0] + "." + parts[1] + "x." + parts[2]},
		{"tampered signature", parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))},
		{"unsigned alg none", "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." + parts[1] + "."},
		{"signed with another key", issueFlash(t, other, FlashSuccess, "forged").Value},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msgs, rec := readFlash(f, &http.Cookie{Name: middleware.FlashCookie, Value: tc.value})
			assert.Empty(t, msgs)
			cleared := rec.Result().Cookies()
			require.Len(t, cleared, 1)
			assert.True(t, cleared[0].MaxAge < 0, "rejected cookie is still cleared")
		})
	}
}

func TestFlash_Expired(t *testing.T) {
	f, err := NewFlasher("test-secret")
	require.NoError(t, err)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return start }

	ck := issueFlash(t, f, FlashDanger, "Show not found")
	assert.Equal(t, int(flashTTL/time.Second), ck.MaxAge)

	f.now = func() time.Time { return start.Add(flashTTL + time.Second) }
	msgs, _ := readFlash(f, ck)
	assert.Empty(t, msgs)
}

func TestFlash_NoCookie(t *testing.T) {
	f, err := NewFlasher("test-secret")
	require.NoError(t, err)

	msgs, rec := readFlash(f, nil)
	assert.Empty(t, msgs)
	assert.Empty(t, rec.Result().Cookies())
}
