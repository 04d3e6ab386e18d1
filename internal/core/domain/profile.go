package domain

// Profile is the public speaker/attendee profile attached to a user.
type Profile struct {
	Name           string `json:"name,omitempty" bson:"name,omitempty"`
	Surname        string `json:"surname,omitempty" bson:"surname,omitempty"`
	ProfileImage   string `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	Profession     string `json:"profession,omitempty" bson:"profession,omitempty"`
	Organization   string `json:"organization,omitempty" bson:"organization,omitempty"`
	Biography      string `json:"biography,omitempty" bson:"biography,omitempty"`
	TwitterHandle  string `json:"twitter_handle,omitempty" bson:"twitter_handle,omitempty"`
	GithubUsername string `json:"github_username,omitempty" bson:"github_username,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	ContactNumber  string `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
	Website        string `json:"website,omitempty" bson:"website,omitempty"`
	City           string `json:"city,omitempty" bson:"city,omitempty"`
	Country        string `json:"country,omitempty" bson:"country,omitempty"`
}

// Country is one entry of the ISO 3166-1 country list.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
