package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
	"github.com/macxnet80/tigube-approval-service/internal/events"
	apperrors "github.com/macxnet80/tigube-approval-service/pkg/util"
)

type verificationFixture struct {
	users         *fakeUserRepo
	verifications *fakeVerificationRepo
	history       *fakeHistoryRepo
	store         *fakeObjectStore
	captured      []events.Event
	svc           *VerificationService
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()
	users := newFakeUserRepo()
	fx := &verificationFixture{
		users:         users,
		verifications: newFakeVerificationRepo(users),
		history:       &fakeHistoryRepo{},
		store:         newFakeObjectStore(),
	}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range []events.EventType{
		events.EventVerificationSubmitted,
		events.EventVerificationReviewed,
	} {
		dispatcher.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			fx.captured = append(fx.captured, event)
			return nil
		})
	}
	fx.svc = NewVerificationService(VerificationDependencies{
		VerificationRepo: fx.verifications,
		UserRepo:         fx.users,
		HistoryRepo:      fx.history,
		Store:            fx.store,
		Bucket:           "certificates",
		Dispatcher:       dispatcher,
		Logger:           zap.NewNop(),
	})
	fx.users.add(&domain.User{
		ID:                 "c1",
		UserType:           domain.UserTypeCaretaker,
		VerificationStatus: domain.VerificationStatusNotSubmitted,
	})
	return fx
}

func pdfDoc(name string, size int) DocumentInput {
	return DocumentInput{
		FileName:    name,
		ContentType: "application/pdf",
		Data:        bytes.Repeat([]byte{0x25}, size),
	}
}

func TestValidateDocument_RejectsOversizedFile(t *testing.T) {
	doc := pdfDoc("ausweis.pdf", MaxDocumentSize+1)
	err := ValidateDocument(doc)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestValidateDocument_RejectsDisallowedType(t *testing.T) {
	doc := DocumentInput{
		FileName:    "lebenslauf.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        []byte("not a pdf"),
	}
	err := ValidateDocument(doc)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestValidateDocument_AcceptsAllowedTypes(t *testing.T) {
	for _, contentType := range []string{"application/pdf", "image/jpeg", "image/jpg", "image/png"} {
		doc := DocumentInput{FileName: "doc", ContentType: contentType, Data: []byte{1, 2, 3}}
		if err := ValidateDocument(doc); err != nil {
			t.Errorf("%s should be allowed: %v", contentType, err)
		}
	}
}

func TestSubmit_OversizedFileAbortsBeforeAnyUpload(t *testing.T) {
	fx := newVerificationFixture(t)

	_, err := fx.svc.Submit(context.Background(), "c1",
		pdfDoc("ausweis.pdf", 1024),
		[]DocumentInput{pdfDoc("zertifikat.pdf", MaxDocumentSize+1)},
	)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if fx.store.uploadCalls != 0 {
		t.Errorf("no upload may start before all files validate, got %d uploads", fx.store.uploadCalls)
	}
	if len(fx.verifications.byUser) != 0 {
		t.Error("no request row may be written")
	}
}

func TestSubmit_IdentityOnlyStoresEmptyCertificateList(t *testing.T) {
	fx := newVerificationFixture(t)

	request, err := fx.svc.Submit(context.Background(), "c1", pdfDoc("ausweis.pdf", 2048), nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Status != domain.VerificationStatusPending {
		t.Errorf("expected pending, got %s", request.Status)
	}
	if len(request.ZertifikateURLs) != 0 {
		t.Errorf("expected no certificate urls, got %v", request.ZertifikateURLs)
	}
	if request.AusweisURL == "" {
		t.Error("identity document url must be set")
	}
	if !strings.Contains(request.AusweisURL, "c1/ausweis_") {
		t.Errorf("unexpected object key in url: %s", request.AusweisURL)
	}
	if fx.store.uploadCalls != 1 {
		t.Errorf("expected exactly 1 upload, got %d", fx.store.uploadCalls)
	}
	if fx.users.users["c1"].VerificationStatus != domain.VerificationStatusPending {
		t.Error("submission must flip the user verification status mirror to pending")
	}
	if len(fx.captured) != 1 || fx.captured[0].Type != events.EventVerificationSubmitted {
		t.Errorf("expected one verification_submitted event, got %v", fx.captured)
	}
}

func TestSubmit_FailedCertificateUploadRollsBackEarlierUploads(t *testing.T) {
	fx := newVerificationFixture(t)
	fx.store.failAfter = 2

	_, err := fx.svc.Submit(context.Background(), "c1",
		pdfDoc("ausweis.pdf", 1024),
		[]DocumentInput{pdfDoc("z1.pdf", 1024), pdfDoc("z2.pdf", 1024)},
	)
	if err == nil {
		t.Fatal("expected upload failure")
	}
	if len(fx.store.deleteCalls) != 2 {
		t.Fatalf("both uploaded objects should be rolled back, got deletes for %v", fx.store.deleteCalls)
	}
	if len(fx.store.objects) != 0 {
		t.Errorf("no objects may survive a failed submission, got %d", len(fx.store.objects))
	}
	if len(fx.verifications.byUser) != 0 {
		t.Error("no request row may be written after a failed upload")
	}
}

func TestSubmit_BlockedWhileUnderReview(t *testing.T) {
	fx := newVerificationFixture(t)
	fx.verifications.byUser["c1"] = &domain.VerificationRequest{
		ID: "vr-1", UserID: "c1", Status: domain.VerificationStatusInReview,
	}

	_, err := fx.svc.Submit(context.Background(), "c1", pdfDoc("ausweis.pdf", 1024), nil)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if fx.store.uploadCalls != 0 {
		t.Error("blocked submission must not upload")
	}
}

func TestSubmit_BlockedWhenAlreadyApproved(t *testing.T) {
	fx := newVerificationFixture(t)
	fx.verifications.byUser["c1"] = &domain.VerificationRequest{
		ID: "vr-1", UserID: "c1", Status: domain.VerificationStatusApproved,
	}

	_, err := fx.svc.Submit(context.Background(), "c1", pdfDoc("ausweis.pdf", 1024), nil)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestSubmit_ResubmissionAfterRejectionClearsReviewMetadata(t *testing.T) {
	fx := newVerificationFixture(t)
	comment := "Ausweis unleserlich"
	fx.verifications.byUser["c1"] = &domain.VerificationRequest{
		ID: "vr-1", UserID: "c1",
		Status:       domain.VerificationStatusRejected,
		AdminComment: &comment,
	}

	request, err := fx.svc.Submit(context.Background(), "c1", pdfDoc("ausweis.pdf", 1024), nil)
	if err != nil {
		t.Fatalf("resubmission: %v", err)
	}
	if request.Status != domain.VerificationStatusPending {
		t.Errorf("resubmission must reset status to pending, got %s", request.Status)
	}
	if request.ID != "vr-1" {
		t.Errorf("resubmission must reuse the existing row, got id %s", request.ID)
	}
	stored := fx.verifications.byUser["c1"]
	if stored.AdminComment != nil || stored.ReviewedAt != nil || stored.ReviewedBy != nil {
		t.Error("resubmission must clear review metadata")
	}
}

func TestSubmit_OwnerForbidden(t *testing.T) {
	fx := newVerificationFixture(t)
	fx.users.add(&domain.User{ID: "o1", UserType: domain.UserTypeOwner})

	_, err := fx.svc.Submit(context.Background(), "o1", pdfDoc("ausweis.pdf", 1024), nil)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestReview_ApproveStampsReviewer(t *testing.T) {
	fx := newVerificationFixture(t)
	if _, err := fx.svc.Submit(context.Background(), "c1", pdfDoc("ausweis.pdf", 1024), nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	requestID := fx.verifications.byUser["c1"].ID

	admin := &domain.Admin{ID: "admin-1"}
	comment := "looks good"
	updated, err := fx.svc.Review(context.Background(), admin, requestID, domain.VerificationStatusApproved, &comment)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if updated.Status != domain.VerificationStatusApproved {
		t.Errorf("expected approved, got %s", updated.Status)
	}
	if updated.ReviewedBy == nil || *updated.ReviewedBy != "admin-1" {
		t.Error("reviewer must be recorded")
	}
	if updated.AdminComment == nil || *updated.AdminComment != comment {
		t.Error("comment must be recorded")
	}
	if updated.ReviewedAt == nil {
		t.Error("review timestamp must be stamped")
	}
	if fx.users.users["c1"].VerificationStatus != domain.VerificationStatusApproved {
		t.Error("user verification status mirror must follow the request")
	}
}

func TestReview_RejectedIsTerminalForAdmins(t *testing.T) {
	fx := newVerificationFixture(t)
	fx.verifications.byUser["c1"] = &domain.VerificationRequest{
		ID: "vr-1", UserID: "c1", Status: domain.VerificationStatusRejected,
	}

	admin := &domain.Admin{ID: "admin-1"}
	for _, next := range []domain.VerificationStatus{
		domain.VerificationStatusPending,
		domain.VerificationStatusInReview,
		domain.VerificationStatusApproved,
	} {
		_, err := fx.svc.Review(context.Background(), admin, "vr-1", next, nil)
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
			t.Errorf("rejected -> %s: expected CONFLICT, got %v", next, err)
		}
	}
}

func TestReview_TransitionGraph(t *testing.T) {
	cases := []struct {
		from    domain.VerificationStatus
		to      domain.VerificationStatus
		allowed bool
	}{
		{domain.VerificationStatusPending, domain.VerificationStatusInReview, true},
		{domain.VerificationStatusPending, domain.VerificationStatusApproved, true},
		{domain.VerificationStatusPending, domain.VerificationStatusRejected, true},
		{domain.VerificationStatusInReview, domain.VerificationStatusApproved, true},
		{domain.VerificationStatusInReview, domain.VerificationStatusPending, true},
		{domain.VerificationStatusApproved, domain.VerificationStatusRejected, true},
		{domain.VerificationStatusApproved, domain.VerificationStatusPending, true},
		{domain.VerificationStatusApproved, domain.VerificationStatusInReview, false},
		{domain.VerificationStatusRejected, domain.VerificationStatusApproved, false},
	}
	for _, tc := range cases {
		if got := isValidReviewTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected allowed=%v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestReview_MissingRequestNotFound(t *testing.T) {
	fx := newVerificationFixture(t)
	admin := &domain.Admin{ID: "admin-1"}

	_, err := fx.svc.Review(context.Background(), admin, "nope", domain.VerificationStatusApproved, nil)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
