package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix       = "user:%d"
	oauthStateKeyPrefix = "oauth:state:%s"
)

const (
	// UserTTL bounds how stale a cached user record (name, role, image) can be.
	UserTTL = 5 * time.Minute
	// OAuthStateTTL bounds how long an issued OAuth state nonce stays valid.
	OAuthStateTTL = 10 * time.Minute
)

// UserKey returns the cache key for a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// OAuthStateKey returns the cache key for an OAuth state nonce.
func OAuthStateKey(state string) string {
	return fmt.Sprintf(oauthStateKeyPrefix, state)
}

// Invalidate removes a key, if the cache is available.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser removes a cached user record.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// StoreOAuthState records an issued OAuth state nonce. Best-effort: without a
// cache the callback skips replay verification.
func StoreOAuthState(ctx context.Context, state string) {
	if client == nil {
		return
	}
	client.Set(ctx, OAuthStateKey(state), "1", OAuthStateTTL)
}

// ConsumeOAuthState checks and deletes an OAuth state nonce. It returns true
// when the nonce was valid or the cache is unavailable.
func ConsumeOAuthState(ctx context.Context, state string) bool {
	if client == nil {
		return true
	}
	deleted, err := client.Del(ctx, OAuthStateKey(state)).Result()
	if err != nil {
		return true // fail-open, consistent with rate limiting
	}
	return deleted > 0
}
