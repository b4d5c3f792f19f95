package utils

import (
	"errors"
	"sync"
	"time"
)

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken rejects token until expiry. A zero expiry falls back to
// the configured token lifetime.
func BlacklistToken(token string, expiry time.Time) {
	if expiry.IsZero() {
		expiry = time.Now().Add(tokenTTL)
	}
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = expiry
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()

	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	// kadaluarsa, hapus dari blacklist
	blacklistMutex.Lock()
	delete(blacklistedTokens, token)
	blacklistMutex.Unlock()
	return false
}

// ValidateToken parses token and rejects blacklisted ones.
func ValidateToken(tokenString string) (*CustomClaims, error) {
	if IsTokenBlacklisted(tokenString) {
		return nil, errors.New("token has been revoked")
	}

	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, errors.New("invalid user ID in token")
	}
	return claims, nil
}
