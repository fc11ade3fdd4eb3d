// Package visitor keeps per-browser state in a signed cookie.
//
// The only state is the set of placeholder items the browser has claimed.
// Placeholders are never stored server side, so the cookie is the source of
// truth; signing it keeps other pages from forging or corrupting the list.
package visitor

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie holding the claimed placeholder set.
const CookieName = "heartshare_claimed_placeholders"

// CookieMaxAge keeps the claimed set around for a year.
const CookieMaxAge = 365 * 24 * time.Hour

// Claims represents the signed cookie payload.
type Claims struct {
	ClaimedPlaceholders []string `json:"claimed_placeholders"`
	jwt.RegisteredClaims
}

// Encode signs the claimed placeholder ids.
func Encode(secret string, claimed []string) (string, error) {
	now := time.Now()
	claims := Claims{
		ClaimedPlaceholders: claimed,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(CookieMaxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing visitor state: %w", err)
	}
	return signed, nil
}

// Decode verifies a signed value and returns the claimed ids.
func Decode(secret, value string) ([]string, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing visitor state: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid visitor state")
	}
	return claims.ClaimedPlaceholders, nil
}

// Claimed reads the claimed set from the request. A missing or invalid
// cookie reads as an empty set.
func Claimed(r *http.Request, secret string) []string {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	ids, err := Decode(secret, cookie.Value)
	if err != nil {
		return nil
	}
	return ids
}

// AddClaimed records id in the browser's claimed set. Adding an id that is
// already present leaves the set unchanged.
func AddClaimed(w http.ResponseWriter, r *http.Request, secret, id string) error {
	claimed := Claimed(r, secret)
	if !slices.Contains(claimed, id) {
		claimed = append(claimed, id)
	}

	value, err := Encode(secret, claimed)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(CookieMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
