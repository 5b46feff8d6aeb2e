package domain

import (
	"encoding/json"
	"fmt"
)

// StoreSettings is the typed view of a tenant's open-ended settings map.
// Unknown keys survive in Extra so older and newer shapes coexist.
type StoreSettings struct {
	Currency     string            `json:"currency"`
	Locale       string            `json:"locale"`
	Theme        Theme             `json:"theme"`
	SocialLinks  map[string]string `json:"socialLinks,omitempty"`
	Hero         Hero              `json:"hero"`
	ContactEmail string            `json:"contactEmail,omitempty"`
	Extra        map[string]any    `json:"extra,omitempty"`
}

type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

type Hero struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// DefaultStoreSettings is what a new store starts with.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Currency: "KWD",
		Locale:   "en",
		Theme: Theme{
			PrimaryColor:   "#111827",
			SecondaryColor: "#ffffff",
		},
	}
}

var knownSettingsKeys = map[string]struct{}{
	"currency":     {},
	"locale":       {},
	"theme":        {},
	"socialLinks":  {},
	"hero":         {},
	"contactEmail": {},
	"extra":        {},
}

// SettingsFromMap reads the typed settings out of a tenant's settings map,
// starting from DefaultStoreSettings. Keys it does not know land in Extra.
func SettingsFromMap(m map[string]any) (StoreSettings, error) {
	s := DefaultStoreSettings()
	if len(m) == 0 {
		return s, nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return StoreSettings{}, fmt.Errorf("marshal settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return StoreSettings{}, fmt.Errorf("unmarshal settings: %w", err)
	}

	for k, v := range m {
		if _, ok := knownSettingsKeys[k]; ok {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[k] = v
	}
	return s, nil
}

// Map converts the settings back into the loose map stored on the tenant.
func (s StoreSettings) Map() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return m, nil
}
