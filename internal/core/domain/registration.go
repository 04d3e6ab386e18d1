package domain

// RegistrationRequest is one sign-up submission.
type RegistrationRequest struct {
	Username     string
	Email        string
	Password1    string
	Password2    string
	AcceptTOS    bool
	CaptchaToken string
	RemoteIP     string
}

// CaptchaAnswer is the captcha response a client sent with a form, together
// with the address it came from.
type CaptchaAnswer struct {
	Token    string
	RemoteIP string
}
