// Package countries provides the ISO 3166-1 alpha-2 country list offered on
// profile forms, with English display names from the CLDR data bundled in
// golang.org/x/text.
package countries

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/pyconafrica/registration/internal/core/domain"
)

// List implements ports.CountryList. The zero value is not usable; call New.
type List struct {
	sorted []domain.Country
	byCode map[string]domain.Country
}

var (
	defaultList *List
	once        sync.Once
)

// Default returns the process-wide country list, built on first use.
func Default() *List {
	once.Do(func() {
		defaultList = New()
	})
	return defaultList
}

// New builds the list by probing every two-letter code and keeping those
// CLDR knows as countries.
func New() *List {
	namer := display.English.Regions()
	l := &List{byCode: make(map[string]domain.Country)}

	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string([]rune{a, b})
			region, err := language.ParseRegion(code)
			if err != nil || !region.IsCountry() || region.String() != code {
				continue
			}
			name := namer.Name(region)
			if name == "" {
				continue
			}
			c := domain.Country{Code: code, Name: name}
			l.sorted = append(l.sorted, c)
			l.byCode[code] = c
		}
	}

	sort.Slice(l.sorted, func(i, j int) bool {
		return l.sorted[i].Name < l.sorted[j].Name
	})
	return l
}

// Countries returns all countries ordered by display name.
func (l *List) Countries() []domain.Country {
	out := make([]domain.Country, len(l.sorted))
	copy(out, l.sorted)
	return out
}

// Lookup finds a country by code, ignoring case.
func (l *List) Lookup(code string) (domain.Country, bool) {
	c, ok := l.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}
