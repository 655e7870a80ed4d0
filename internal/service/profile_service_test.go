package service

import (
	"context"
	"errors"
	"testing"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

func strPtr(s string) *string { return &s }

func caretakerWithProfile(users *fakeUserRepo, profiles *fakeProfileRepo, id string) {
	users.add(&domain.User{
		ID:       id,
		Email:    id + "@example.com",
		Name:     "Maria",
		UserType: domain.UserTypeCaretaker,
	})
	profiles.profiles[id] = &domain.CaretakerProfile{UserID: id, Services: domain.ServiceList{}}
}

func TestValidateProfileForApproval_EmptyProfile(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	caretakerWithProfile(users, profiles, "c1")

	svc := NewProfileService(users, profiles)
	result, err := svc.ValidateProfileForApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsValid {
		t.Error("empty profile should not be valid")
	}
	want := []string{"Über mich", "Profilbild", "Mindestens eine Leistung"}
	if len(result.MissingFields) != len(want) {
		t.Fatalf("expected %d missing fields, got %v", len(want), result.MissingFields)
	}
	for i, label := range want {
		if result.MissingFields[i] != label {
			t.Errorf("missing field %d: expected %q, got %q", i, label, result.MissingFields[i])
		}
	}
}

func TestValidateProfileForApproval_CompleteProfile(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	caretakerWithProfile(users, profiles, "c1")
	users.users["c1"].ProfilePhotoURL = strPtr("https://cdn.example.com/c1.jpg")
	profiles.profiles["c1"].ShortAboutMe = "Erfahrene Tiersitterin aus Berlin."
	profiles.profiles["c1"].Services = domain.ServiceList{"Gassi-Service"}

	svc := NewProfileService(users, profiles)
	result, err := svc.ValidateProfileForApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsValid {
		t.Errorf("expected valid profile, missing: %v", result.MissingFields)
	}
	if len(result.MissingFields) != 0 {
		t.Errorf("expected no missing fields, got %v", result.MissingFields)
	}
}

func TestValidateProfileForApproval_WhitespaceAboutMe(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	caretakerWithProfile(users, profiles, "c1")
	users.users["c1"].ProfilePhotoURL = strPtr("https://cdn.example.com/c1.jpg")
	profiles.profiles["c1"].ShortAboutMe = "   "
	profiles.profiles["c1"].LongAboutMe = "\n\t"
	profiles.profiles["c1"].Services = domain.ServiceList{"Gassi-Service"}

	svc := NewProfileService(users, profiles)
	result, err := svc.ValidateProfileForApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.HasAboutMe {
		t.Error("whitespace-only about me should not count")
	}
	if len(result.MissingFields) != 1 || result.MissingFields[0] != "Über mich" {
		t.Errorf("expected only %q missing, got %v", "Über mich", result.MissingFields)
	}
}

func TestValidateProfileForApproval_LongAboutMeSuffices(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	caretakerWithProfile(users, profiles, "c1")
	users.users["c1"].ProfilePhotoURL = strPtr("https://cdn.example.com/c1.jpg")
	profiles.profiles["c1"].LongAboutMe = "Ich betreue seit zehn Jahren Hunde und Katzen."
	profiles.profiles["c1"].Services = domain.ServiceList{"Betreuung"}

	svc := NewProfileService(users, profiles)
	result, err := svc.ValidateProfileForApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasAboutMe {
		t.Error("long about me alone should satisfy the about check")
	}
	if !result.IsValid {
		t.Errorf("expected valid, missing: %v", result.MissingFields)
	}
}

func TestValidateProfileForApproval_MissingUser(t *testing.T) {
	svc := NewProfileService(newFakeUserRepo(), newFakeProfileRepo())

	_, err := svc.ValidateProfileForApproval(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for missing user")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestValidateProfileForApproval_MissingProfileRow(t *testing.T) {
	users := newFakeUserRepo()
	users.add(&domain.User{ID: "c1", UserType: domain.UserTypeCaretaker})

	svc := NewProfileService(users, newFakeProfileRepo())
	_, err := svc.ValidateProfileForApproval(context.Background(), "c1")
	if err == nil {
		t.Fatal("expected error for missing profile row")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateProfile_RoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	caretakerWithProfile(users, profiles, "c1")

	svc := NewProfileService(users, profiles)
	updated, err := svc.UpdateProfile(context.Background(), "c1", &domain.CaretakerProfile{
		ShortAboutMe: "Hallo!",
		Services:     domain.ServiceList{"Gassi-Service", "Betreuung"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ShortAboutMe != "Hallo!" {
		t.Errorf("about me not persisted: %q", updated.ShortAboutMe)
	}
	if len(updated.Services) != 2 {
		t.Errorf("services not persisted: %v", updated.Services)
	}
}
