package ports

import "context"

// CaptchaVerifier checks a captcha response token with the captcha provider.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}
