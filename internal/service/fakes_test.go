package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/macxnet80/tigube-approval-service/internal/domain"
)

// In-memory fakes backing the service tests. They mimic the row
// semantics of the real repositories, including pgx.ErrNoRows on
// missing rows.

type fakeUserRepo struct {
	users map[string]*domain.User

	setPendingCalls  int
	setDecisionCalls int
	resetCalls       int
	statsQueries     int
	stats            domain.ApprovalStats
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) add(user *domain.User) {
	f.users[user.ID] = user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) UpdateProfilePhoto(ctx context.Context, userID string, photoURL *string) error {
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ProfilePhotoURL = photoURL
	return nil
}

func (f *fakeUserRepo) SetApprovalPending(ctx context.Context, userID string, requestedAt time.Time) error {
	user, ok := f.users[userID]
	if !ok || user.UserType != domain.UserTypeCaretaker {
		return pgx.ErrNoRows
	}
	f.setPendingCalls++
	status := domain.ApprovalStatusPending
	user.ApprovalStatus = &status
	user.ApprovalRequestedAt = &requestedAt
	return nil
}

func (f *fakeUserRepo) SetApprovalDecision(ctx context.Context, userID string, status domain.ApprovalStatus, decidedBy string, decidedAt time.Time, notes *string) error {
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	f.setDecisionCalls++
	user.ApprovalStatus = &status
	user.ApprovalDecidedAt = &decidedAt
	user.ApprovalDecidedBy = &decidedBy
	user.ApprovalNotes = notes
	return nil
}

func (f *fakeUserRepo) ResetApproval(ctx context.Context, userID string) error {
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	f.resetCalls++
	user.ApprovalStatus = nil
	user.ApprovalRequestedAt = nil
	user.ApprovalDecidedAt = nil
	user.ApprovalDecidedBy = nil
	user.ApprovalNotes = nil
	return nil
}

func (f *fakeUserRepo) ListPendingCaretakers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		if user.UserType == domain.UserTypeCaretaker &&
			user.ApprovalStatus != nil && *user.ApprovalStatus == domain.ApprovalStatusPending {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) ApprovalStats(ctx context.Context) (*domain.ApprovalStats, error) {
	f.statsQueries++
	stats := f.stats
	return &stats, nil
}

type fakeProfileRepo struct {
	profiles map[string]*domain.CaretakerProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.CaretakerProfile{}}
}

func (f *fakeProfileRepo) CreateEmpty(ctx context.Context, userID string) error {
	if _, ok := f.profiles[userID]; !ok {
		f.profiles[userID] = &domain.CaretakerProfile{UserID: userID, Services: domain.ServiceList{}}
	}
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.CaretakerProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile *domain.CaretakerProfile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *profile
	f.profiles[profile.UserID] = &clone
	return nil
}

type fakeHistoryRepo struct {
	entries []domain.WorkflowHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, entry *domain.WorkflowHistory) error {
	entry.ID = fmt.Sprintf("hist-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.WorkflowHistory, error) {
	var result []domain.WorkflowHistory
	for _, entry := range f.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeStatsCache struct {
	stats       *domain.ApprovalStats
	hits        int
	sets        int
	invalidates int
}

func (f *fakeStatsCache) GetStats(ctx context.Context) (*domain.ApprovalStats, bool) {
	if f.stats == nil {
		return nil, false
	}
	f.hits++
	clone := *f.stats
	return &clone, true
}

func (f *fakeStatsCache) SetStats(ctx context.Context, stats *domain.ApprovalStats) {
	f.sets++
	clone := *stats
	f.stats = &clone
}

func (f *fakeStatsCache) Invalidate(ctx context.Context) {
	f.invalidates++
	f.stats = nil
}

// fakeVerificationRepo mirrors status changes into the user repo the
// way the real repository does inside its transactions.
type fakeVerificationRepo struct {
	byUser map[string]*domain.VerificationRequest
	users  *fakeUserRepo
	nextID int
}

func newFakeVerificationRepo(users *fakeUserRepo) *fakeVerificationRepo {
	return &fakeVerificationRepo{byUser: map[string]*domain.VerificationRequest{}, users: users}
}

func (f *fakeVerificationRepo) mirrorStatus(userID string, status domain.VerificationStatus) {
	if f.users == nil {
		return
	}
	if user, ok := f.users.users[userID]; ok {
		user.VerificationStatus = status
	}
}

func (f *fakeVerificationRepo) GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error) {
	for _, request := range f.byUser {
		if request.ID == id {
			clone := *request
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeVerificationRepo) GetByUserID(ctx context.Context, userID string) (*domain.VerificationRequest, error) {
	request, ok := f.byUser[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *request
	return &clone, nil
}

func (f *fakeVerificationRepo) UpsertSubmission(ctx context.Context, request *domain.VerificationRequest) error {
	request.Status = domain.VerificationStatusPending
	if existing, ok := f.byUser[request.UserID]; ok {
		request.ID = existing.ID
		request.CreatedAt = existing.CreatedAt
	} else {
		f.nextID++
		request.ID = fmt.Sprintf("vr-%d", f.nextID)
		request.CreatedAt = time.Now()
	}
	request.UpdatedAt = time.Now()
	request.AdminComment = nil
	request.ReviewedAt = nil
	request.ReviewedBy = nil
	clone := *request
	f.byUser[request.UserID] = &clone
	f.mirrorStatus(request.UserID, domain.VerificationStatusPending)
	return nil
}

func (f *fakeVerificationRepo) Review(ctx context.Context, requestID string, status domain.VerificationStatus, comment *string, reviewedBy string, reviewedAt time.Time) (*domain.VerificationRequest, error) {
	for _, request := range f.byUser {
		if request.ID == requestID {
			request.Status = status
			request.AdminComment = comment
			request.ReviewedAt = &reviewedAt
			request.ReviewedBy = &reviewedBy
			request.UpdatedAt = time.Now()
			f.mirrorStatus(request.UserID, status)
			clone := *request
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeVerificationRepo) ListAll(ctx context.Context) ([]domain.VerificationListing, error) {
	var result []domain.VerificationListing
	for _, request := range f.byUser {
		result = append(result, domain.VerificationListing{Request: *request})
	}
	return result, nil
}

type fakeObjectStore struct {
	objects     map[string][]byte
	uploadCalls int
	deleteCalls []string
	failAfter   int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, failAfter: -1}
}

func (f *fakeObjectStore) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	f.uploadCalls++
	if f.failAfter >= 0 && f.uploadCalls > f.failAfter {
		return "", fmt.Errorf("storage unavailable")
	}
	f.objects[bucket+"/"+key] = data
	return f.PublicURL(bucket, key), nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, bucket, key string) error {
	f.deleteCalls = append(f.deleteCalls, key)
	delete(f.objects, bucket+"/"+key)
	return nil
}

func (f *fakeObjectStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.example.com/%s/%s", bucket, key)
}
