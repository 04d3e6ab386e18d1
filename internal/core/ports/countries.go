package ports

import "github.com/pyconafrica/registration/internal/core/domain"

// CountryList supplies the ISO 3166-1 country codes accepted on profiles.
type CountryList interface {
	Countries() []domain.Country
	Lookup(code string) (domain.Country, bool)
}
