package handler

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-show-booking/internal/middleware"
)

// Flash categories.
const (
	FlashDanger  = "danger"
	FlashSuccess = "success"
)

// flashTTL bounds how long a pending message survives; it only has to
// outlive one redirect.
const flashTTL = 60 * time.Second

// FlashMessage is a one-shot notice shown on the next page the client
// loads, e.g. after being redirected away from an unknown show.
type FlashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// flashClaims is the payload of the signed flash cookie.
type flashClaims struct {
	Category string `json:"cat"`
	Message  string `json:"msg"`
	jwt.RegisteredClaims
}

// Flasher carries flash messages between requests in an HS256-signed
// cookie, so clients cannot forge messages the service never issued.
type Flasher struct {
	secret []byte
	now    func() time.Time
}

// NewFlasher returns a Flasher keyed with secret.  An empty secret gets a
// random key, which is enough for single-instance deployments because a
// message only lives across one redirect.
func NewFlasher(secret string) (*Flasher, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &Flasher{secret: key, now: time.Now}, nil
}

// Set stores a message for the next request.
func (f *Flasher) Set(c echo.Context, category, message string) error {
	now := f.now()
	claims := flashClaims{
		Category: category,
		Message:  message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.FlashCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(flashTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop reads and clears the pending message.  Cookies that are malformed,
// expired or not signed with our key are cleared and ignored.
func (f *Flasher) Pop(c echo.Context) []FlashMessage {
	ck, err := c.Cookie(middleware.FlashCookie)
	if err != nil || ck.Value == "" {
		return []FlashMessage{}
	}
	c.SetCookie(&http.Cookie{Name: middleware.FlashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	var claims flashClaims
	_, err = jwt.ParseWithClaims(ck.Value, &claims,
		func(*jwt.Token) (interface{}, error) { return f.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil || claims.Message == "" {
		return []FlashMessage{}
	}
	return []FlashMessage{{Category: claims.Category, Message: claims.Message}}
}
