package handler

import "github.com/pyconafrica/registration/internal/core/domain"

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse is returned with 422 when one or more fields are rejected.
type validationResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields"`
}

// --- Request / Response types ---

type profileRequest struct {
	Name           string `json:"name"            validate:"max=255"`
	Surname        string `json:"surname"         validate:"max=255"`
	ProfileImage   string `json:"profile_image"   validate:"omitempty,url"`
	Profession     string `json:"profession"      validate:"max=255"`
	Organization   string `json:"organization"    validate:"max=255"`
	Biography      string `json:"biography"       validate:"max=4000"`
	TwitterHandle  string `json:"twitter_handle"  validate:"max=15"`
	GithubUsername string `json:"github_username" validate:"max=39"`
	LinkedIn       string `json:"linkedin"        validate:"omitempty,url"`
	ContactNumber  string `json:"contact_number"  validate:"max=32"`
	Website        string `json:"website"         validate:"omitempty,url"`
	City           string `json:"city"            validate:"max=255"`
	Country        string `json:"country"`
	CaptchaToken   string `json:"captcha_token"`
}

func (r profileRequest) toDomain() domain.Profile {
	return domain.Profile{
		Name:           r.Name,
		Surname:        r.Surname,
		ProfileImage:   r.ProfileImage,
		Profession:     r.Profession,
		Organization:   r.Organization,
		Biography:      r.Biography,
		TwitterHandle:  r.TwitterHandle,
		GithubUsername: r.GithubUsername,
		LinkedIn:       r.LinkedIn,
		ContactNumber:  r.ContactNumber,
		Website:        r.Website,
		City:           r.City,
		Country:        r.Country,
	}
}

type accountRequest struct {
	FirstName    string `json:"first_name"    validate:"max=150"`
	LastName     string `json:"last_name"     validate:"max=150"`
	Email        string `json:"email"`
	CaptchaToken string `json:"captcha_token"`
}

type passwordChangeRequest struct {
	OldPassword  string `json:"old_password"`
	NewPassword1 string `json:"new_password1"`
	NewPassword2 string `json:"new_password2"`
	CaptchaToken string `json:"captcha_token"`
}

type countriesResponse struct {
	Countries []domain.Country `json:"countries"`
}
