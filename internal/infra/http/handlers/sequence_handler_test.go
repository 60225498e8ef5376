package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/usecase"
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

// MockLeadRepository (só o que o enroll usa)
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

// MockEnrollmentRepository (só o que o enroll usa)
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

func newHandler(seqRepo *MockSequenceRepository, leadRepo *MockLeadRepository, enrollRepo *MockEnrollmentRepository) *SequenceHandler {
	uc := usecase.NewEnrollLeadsUseCase(seqRepo, leadRepo, enrollRepo)
	return NewSequenceHandler(seqRepo, uc)
}

func enrollableLead(id string) *entity.LeadWithContact {
	return &entity.LeadWithContact{
		Lead:    &entity.Lead{ID: id, Company: "Empresa"},
		Primary: &entity.Contact{ID: "c-" + id, LeadID: id, Email: id + "@x.com", IsPrimary: true},
	}
}

func TestHandleEnroll_ReturnsCounts(t *testing.T) {
	seqRepo := new(MockSequenceRepository)
	leadRepo := new(MockLeadRepository)
	enrollRepo := new(MockEnrollmentRepository)
	handler := newHandler(seqRepo, leadRepo, enrollRepo)

	seq, _ := entity.NewSequence("Teste", "", "", nil, nil)
	seq.ID = "seq-1"
	seqRepo.On("FindByID", mock.Anything, "seq-1").Return(seq, nil)
	leadRepo.On("FindByIDsWithPrimaryContact", mock.Anything, []string{"l1", "l2"}).
		Return([]*entity.LeadWithContact{enrollableLead("l1"), enrollableLead("l2")}, nil)
	enrollRepo.On("BulkInsertIgnoreConflict", mock.Anything, mock.Anything).Return(2, nil)
	leadRepo.On("UpdateStage", mock.Anything, []string{"l1", "l2"}, entity.StageContacted).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{"sequence_id": "seq-1", "lead_ids": []string{"l1", "l2"}})
	req := httptest.NewRequest("PUT", "/sequences", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleEnroll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var output usecase.EnrollLeadsOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Equal(t, 2, output.Enrolled)
	assert.Equal(t, 0, output.Skipped)
	assert.Equal(t, 0, output.NoContacts)
}

func TestHandleEnroll_SequenceNotFoundIs404(t *testing.T) {
	seqRepo := new(MockSequenceRepository)
	leadRepo := new(MockLeadRepository)
	enrollRepo := new(MockEnrollmentRepository)
	handler := newHandler(seqRepo, leadRepo, enrollRepo)

	seqRepo.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrSequenceNotFound)

	body, _ := json.Marshal(map[string]interface{}{"sequence_id": "ghost", "lead_ids": []string{"l1"}})
	req := httptest.NewRequest("PUT", "/sequences", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleEnroll(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestHandleEnroll_EmptyLeadsIs400(t *testing.T) {
	seqRepo := new(MockSequenceRepository)
	leadRepo := new(MockLeadRepository)
	enrollRepo := new(MockEnrollmentRepository)
	handler := newHandler(seqRepo, leadRepo, enrollRepo)

	body, _ := json.Marshal(map[string]interface{}{"sequence_id": "seq-1", "lead_ids": []string{}})
	req := httptest.NewRequest("PUT", "/sequences", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleEnroll(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	seqRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestHandleCreate_AppliesDefaults(t *testing.T) {
	seqRepo := new(MockSequenceRepository)
	handler := newHandler(seqRepo, new(MockLeadRepository), new(MockEnrollmentRepository))

	seqRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]string{"name": "Nova cadência"})
	req := httptest.NewRequest("POST", "/sequences", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var created entity.Sequence
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created.Steps, 5)
	assert.Equal(t, 50, created.Settings.MaxPerDay)
}

func TestHandleCreate_MissingNameIs400(t *testing.T) {
	seqRepo := new(MockSequenceRepository)
	handler := newHandler(seqRepo, new(MockLeadRepository), new(MockEnrollmentRepository))

	body, _ := json.Marshal(map[string]string{"description": "sem nome"})
	req := httptest.NewRequest("POST", "/sequences", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	seqRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
