package dto

import (
	"time"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// UpdateProfileRequest payload. Services accepts the historical
// array-or-object JSON forms; domain.ServiceList normalizes on parse.
type UpdateProfileRequest struct {
	ShortAboutMe    string             `json:"short_about_me"`
	LongAboutMe     string             `json:"long_about_me"`
	Services        domain.ServiceList `json:"services"`
	HourlyRate      *float64           `json:"hourly_rate"`
	ExperienceYears *int               `json:"experience_years"`
	Languages       []string           `json:"languages"`
	AnimalTypes     []string           `json:"animal_types"`
	Qualifications  []string           `json:"qualifications"`
	IsCommercial    bool               `json:"is_commercial"`
	CompanyName     *string            `json:"company_name"`
	TaxNumber       *string            `json:"tax_number"`
	VatID           *string            `json:"vat_id"`
}

// ProfileResponse response.
type ProfileResponse struct {
	UserID          string             `json:"user_id"`
	ShortAboutMe    string             `json:"short_about_me"`
	LongAboutMe     string             `json:"long_about_me"`
	Services        domain.ServiceList `json:"services"`
	HourlyRate      *float64           `json:"hourly_rate"`
	ExperienceYears *int               `json:"experience_years"`
	Languages       []string           `json:"languages"`
	AnimalTypes     []string           `json:"animal_types"`
	Qualifications  []string           `json:"qualifications"`
	IsCommercial    bool               `json:"is_commercial"`
	CompanyName     *string            `json:"company_name"`
	TaxNumber       *string            `json:"tax_number"`
	VatID           *string            `json:"vat_id"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ProfileResponseFromDomain maps a domain profile.
func ProfileResponseFromDomain(profile *domain.CaretakerProfile) ProfileResponse {
	return ProfileResponse{
		UserID:          profile.UserID,
		ShortAboutMe:    profile.ShortAboutMe,
		LongAboutMe:     profile.LongAboutMe,
		Services:        profile.Services,
		HourlyRate:      profile.HourlyRate,
		ExperienceYears: profile.ExperienceYears,
		Languages:       profile.Languages,
		AnimalTypes:     profile.AnimalTypes,
		Qualifications:  profile.Qualifications,
		IsCommercial:    profile.IsCommercial,
		CompanyName:     profile.CompanyName,
		TaxNumber:       profile.TaxNumber,
		VatID:           profile.VatID,
		UpdatedAt:       profile.UpdatedAt,
	}
}

// ProfileCheckResponse mirrors the completeness check result.
type ProfileCheckResponse struct {
	IsValid         bool     `json:"is_valid"`
	MissingFields   []string `json:"missing_fields"`
	HasProfilePhoto bool     `json:"has_profile_photo"`
	HasAboutMe      bool     `json:"has_about_me"`
	HasServices     bool     `json:"has_services"`
}
