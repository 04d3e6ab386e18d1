package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pyconafrica/registration/internal/core/ports"
)

// reCAPTCHA tokens are only valid for two minutes.
const captchaTokenTTL = 2 * time.Minute

// CaptchaReplayGuard rejects captcha tokens that were already presented once
// before passing them on to the wrapped verifier.
// Key format: captcha:<sha256(token)>
type CaptchaReplayGuard struct {
	client *redis.Client
	next   ports.CaptchaVerifier
}

// NewCaptchaReplayGuard wraps next with a Redis-backed single-use check.
func NewCaptchaReplayGuard(client *redis.Client, next ports.CaptchaVerifier) *CaptchaReplayGuard {
	return &CaptchaReplayGuard{client: client, next: next}
}

func (g *CaptchaReplayGuard) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	fresh, err := g.client.SetNX(ctx, captchaKey(token), "1", captchaTokenTTL).Result()
	if err != nil {
		return false, fmt.Errorf("captcha replay check: %w", err)
	}
	if !fresh {
		return false, nil
	}
	return g.next.Verify(ctx, token, remoteIP)
}

func captchaKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "captcha:" + hex.EncodeToString(sum[:])
}
