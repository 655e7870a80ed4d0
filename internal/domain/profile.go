package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// ServiceList is the canonical representation of a caretaker's offered
// services: a flat string slice. Historical records stored services
// either as an array of names or as an object keyed by name, so the
// JSON parse boundary accepts both shapes and normalizes here; readers
// never see the object form. Marshalling always emits the array form.
type ServiceList []string

// UnmarshalJSON accepts ["Gassi-Service"] as well as {"gassi": true}.
// Object keys mapped to an explicit false are treated as disabled.
func (s *ServiceList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = arr
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	keys := make([]string, 0, len(obj))
	for key, raw := range obj {
		if string(raw) == "false" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	*s = keys
	return nil
}

// MarshalJSON always emits the canonical array form, never null.
func (s ServiceList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// CaretakerProfile is the 1:1 extension of a caretaker-type User.
type CaretakerProfile struct {
	UserID          string
	ShortAboutMe    string
	LongAboutMe     string
	Services        ServiceList
	HourlyRate      *float64
	ExperienceYears *int
	Languages       []string
	AnimalTypes     []string
	Qualifications  []string
	IsCommercial    bool
	CompanyName     *string
	TaxNumber       *string
	VatID           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileCheckResult reports completeness of a caretaker profile.
type ProfileCheckResult struct {
	IsValid         bool     `json:"is_valid"`
	MissingFields   []string `json:"missing_fields"`
	HasProfilePhoto bool     `json:"has_profile_photo"`
	HasAboutMe      bool     `json:"has_about_me"`
	HasServices     bool     `json:"has_services"`
}
