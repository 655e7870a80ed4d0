package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// ProfileRepository defines persistence access for caretaker profiles.
type ProfileRepository interface {
	CreateEmpty(ctx context.Context, userID string) error
	GetByUserID(ctx context.Context, userID string) (*domain.CaretakerProfile, error)
	Update(ctx context.Context, profile *domain.CaretakerProfile) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) CreateEmpty(ctx context.Context, userID string) error {
	const query = `
        INSERT INTO caretaker_profiles (user_id, services)
        VALUES ($1, '[]'::jsonb)
        ON CONFLICT (user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.CaretakerProfile, error) {
	const query = `
        SELECT user_id, short_about_me, long_about_me, services, hourly_rate, experience_years,
               languages, animal_types, qualifications, is_commercial, company_name, tax_number, vat_id,
               created_at, updated_at
        FROM caretaker_profiles WHERE user_id=$1`

	var profile domain.CaretakerProfile
	var servicesRaw []byte
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.ShortAboutMe,
		&profile.LongAboutMe,
		&servicesRaw,
		&profile.HourlyRate,
		&profile.ExperienceYears,
		&profile.Languages,
		&profile.AnimalTypes,
		&profile.Qualifications,
		&profile.IsCommercial,
		&profile.CompanyName,
		&profile.TaxNumber,
		&profile.VatID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	// Rows written before normalization may still hold the object form;
	// ServiceList accepts both.
	if len(servicesRaw) > 0 {
		if err := json.Unmarshal(servicesRaw, &profile.Services); err != nil {
			return nil, err
		}
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.CaretakerProfile) error {
	const query = `
        UPDATE caretaker_profiles SET short_about_me=$1, long_about_me=$2, services=$3, hourly_rate=$4,
            experience_years=$5, languages=$6, animal_types=$7, qualifications=$8,
            is_commercial=$9, company_name=$10, tax_number=$11, vat_id=$12, updated_at=NOW()
        WHERE user_id=$13`

	// Canonical array form at the write boundary.
	servicesRaw, err := json.Marshal(profile.Services)
	if err != nil {
		return err
	}

	cmd, err := r.pool.Exec(ctx, query,
		profile.ShortAboutMe,
		profile.LongAboutMe,
		servicesRaw,
		profile.HourlyRate,
		profile.ExperienceYears,
		profile.Languages,
		profile.AnimalTypes,
		profile.Qualifications,
		profile.IsCommercial,
		profile.CompanyName,
		profile.TaxNumber,
		profile.VatID,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
