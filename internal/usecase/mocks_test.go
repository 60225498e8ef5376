package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/infra/queue"
)

// MockSequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Create(ctx context.Context, seq *entity.Sequence) error {
	args := m.Called(ctx, seq)
	return args.Error(0)
}

func (m *MockSequenceRepository) FindByID(ctx context.Context, id string) (*entity.Sequence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sequence), args.Error(1)
}

func (m *MockSequenceRepository) ListWithStats(ctx context.Context) ([]*entity.SequenceWithStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SequenceWithStats), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByIDsWithPrimaryContact(ctx context.Context, ids []string) ([]*entity.LeadWithContact, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadWithContact), args.Error(1)
}

func (m *MockLeadRepository) UpdateStage(ctx context.Context, ids []string, stage string) error {
	args := m.Called(ctx, ids, stage)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveEnrichment(ctx context.Context, leadID, key string, entry entity.EnrichmentEntry) error {
	args := m.Called(ctx, leadID, key, entry)
	return args.Error(0)
}

// MockEnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) BulkInsertIgnoreConflict(ctx context.Context, rows []*entity.Enrollment) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindActiveByLead(ctx context.Context, leadID string) ([]*entity.Enrollment, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.Enrollment, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) CountActionsSince(ctx context.Context, sequenceID string, since time.Time) (int, error) {
	args := m.Called(ctx, sequenceID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockEnrollmentRepository) MarkStepSent(ctx context.Context, id string, nextStep int, nextActionAt, sentAt time.Time) error {
	args := m.Called(ctx, id, nextStep, nextActionAt, sentAt)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Complete(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) SetStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishStepAction(ctx context.Context, payload queue.StepActionPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEnrichmentProvider
type MockEnrichmentProvider struct {
	mock.Mock
}

func (m *MockEnrichmentProvider) Research(ctx context.Context, company, sector string) (json.RawMessage, error) {
	args := m.Called(ctx, company, sector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
