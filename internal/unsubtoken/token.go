package unsubtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

/*
Stateless one-click unsubscribe tokens.

A token is base64url(payload) + "." + base64url(HMAC-SHA256(payload)),
where the payload is "unsubscribe|<userID>|<expiryUnix>". Nothing is
stored server-side; possession of a valid token proves the link came
from a digest email we sent.

Validate never panics and never explains why a token was rejected.
A forged, malformed or expired token all look the same to the caller.
*/

const tokenKind = "unsubscribe"

// DefaultTTL matches the digest email cadence; links in old digests
// keep working for about three months.
const DefaultTTL = 90 * 24 * time.Hour

type TokenError struct {
	Message string
}

func (e *TokenError) Error() string {
	return e.Message
}

func Generate(userID string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if userID == "" {
		return "", &TokenError{Message: "user ID must not be empty"}
	}
	if strings.Contains(userID, "|") {
		return "", &TokenError{Message: "user ID must not contain the payload separator"}
	}
	if len(secret) == 0 {
		return "", &TokenError{Message: "signing secret must not be empty"}
	}

	expiry := now.Add(ttl).Unix()
	payload := fmt.Sprintf("%s|%s|%d", tokenKind, userID, expiry)

	encodedPayload := base64.RawURLEncoding.EncodeToString([]byte(payload))
	signature := sign([]byte(payload), secret)
	return encodedPayload + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// Validate checks signature, shape, kind and expiry. It returns the
// user ID and true only when every check passes.
func Validate(token string, secret []byte, now time.Time) (string, bool) {
	if len(secret) == 0 {
		return "", false
	}

	encodedPayload, encodedSignature, found := strings.Cut(token, ".")
	if !found {
		return "", false
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return "", false
	}
	signature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(signature, sign(payload, secret)) {
		return "", false
	}

	parts := strings.Split(string(payload), "|")
	if len(parts) != 3 || parts[0] != tokenKind || parts[1] == "" {
		return "", false
	}

	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", false
	}
	if now.Unix() >= expiry {
		return "", false
	}

	return parts[1], true
}

func sign(payload []byte, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
