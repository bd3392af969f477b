package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"astrocrm/internal/access"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/repositories"
	"astrocrm/internal/testutil"
	"astrocrm/pkg/utils"
)

type historyFixture struct {
	db    *gorm.DB
	svc   ConsultationHistoryServiceInterface
	alice access.Identity
	bob   access.Identity
}

func newHistoryFixture(t *testing.T) historyFixture {
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger()
	alice := testutil.SeedAccount(t, db, "alice@example.com", db_models.RoleUser, db_models.StatusApproved)
	bob := testutil.SeedAccount(t, db, "bob@example.com", db_models.RoleUser, db_models.StatusApproved)

	return historyFixture{
		db: db,
		svc: NewConsultationHistoryService(
			repositories.NewConsultationHistoryRepository(db),
			repositories.NewConsultationRepository(db),
			log,
		),
		alice: access.IdentityOf(alice),
		bob:   access.IdentityOf(bob),
	}
}

func (f historyFixture) seedConsultation(t *testing.T, owner access.Identity) uuid.UUID {
	t.Helper()
	c := &db_models.Consultation{
		Name:         "Ravi",
		DateOfBirth:  mustDate(t, "1990-05-17"),
		TimeOfBirth:  "06:30",
		PlaceOfBirth: "Varanasi",
		Phone:        "9876543210",
		Status:       db_models.ConsultationPending,
		CreatedBy:    owner.ID,
	}
	require.NoError(t, f.db.Create(c).Error)
	return c.ID
}

func sessionRequest(date string) request_models.ConsultationHistoryRequest {
	return request_models.ConsultationHistoryRequest{
		ConsultationDate:   date,
		PlanetaryPositions: "Saturn in 10th house",
		Prediction:         "Career change",
		Suggestions:        "Blue sapphire",
	}
}

func TestHistory_AddValidatesBeforeOwnership(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	consultationID := f.seedConsultation(t, f.alice)

	req := sessionRequest("2024-03-01")
	req.Prediction = ""
	_, err := f.svc.Add(ctx, f.bob, consultationID, req)
	require.ErrorIs(t, err, utils.ErrValidation)
	assert.Contains(t, err.Error(), "Missing required fields: consultationDate, planetaryPositions, prediction, suggestions")

	req = sessionRequest("2024-03-01")
	req.Status = "cancelled"
	_, err = f.svc.Add(ctx, f.alice, consultationID, req)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestHistory_AddDefaultsAndOwnership(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	consultationID := f.seedConsultation(t, f.alice)

	entry, err := f.svc.Add(ctx, f.alice, consultationID, sessionRequest("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, db_models.SessionCompleted, entry.Status)
	require.NotNil(t, entry.ConsultedBy)
	assert.Equal(t, f.alice.ID, *entry.ConsultedBy)

	_, err = f.svc.Add(ctx, f.bob, consultationID, sessionRequest("2024-03-02"))
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.svc.Add(ctx, f.alice, uuid.New(), sessionRequest("2024-03-02"))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestHistory_EntryAccessFollowsParent(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	consultationID := f.seedConsultation(t, f.alice)

	entry, err := f.svc.Add(ctx, f.alice, consultationID, sessionRequest("2024-03-01"))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.alice, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Career change", got.Prediction)

	_, err = f.svc.Get(ctx, f.bob, entry.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	notes := "Follow up in six months"
	_, err = f.svc.Update(ctx, f.bob, entry.ID, request_models.ConsultationHistoryUpdateRequest{SessionNotes: &notes})
	assert.ErrorIs(t, err, utils.ErrForbidden)

	updated, err := f.svc.Update(ctx, f.alice, entry.ID, request_models.ConsultationHistoryUpdateRequest{SessionNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.SessionNotes)
	assert.Equal(t, consultationID, updated.ConsultationID)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, entry.ID), utils.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.alice, entry.ID))
	_, err = f.svc.Get(ctx, f.alice, entry.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestHistory_UpdateRejectsEmptyBody(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	consultationID := f.seedConsultation(t, f.alice)
	entry, err := f.svc.Add(ctx, f.alice, consultationID, sessionRequest("2024-03-01"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.alice, entry.ID, request_models.ConsultationHistoryUpdateRequest{})
	require.ErrorIs(t, err, utils.ErrValidation)
	assert.Contains(t, err.Error(), "Request body is missing or empty")
}

func TestHistory_OrphanedEntryIsNotFound(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	consultationID := f.seedConsultation(t, f.alice)
	entry, err := f.svc.Add(ctx, f.alice, consultationID, sessionRequest("2024-03-01"))
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&db_models.Consultation{}, "id = ?", consultationID).Error)

	_, err = f.svc.Get(ctx, f.alice, entry.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	_, err = f.svc.Get(ctx, f.bob, entry.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestHistory_ListForConsultationNewestFirst(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	consultationID := f.seedConsultation(t, f.alice)

	for _, d := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		_, err := f.svc.Add(ctx, f.alice, consultationID, sessionRequest(d))
		require.NoError(t, err)
	}

	page, err := f.svc.ListForConsultation(ctx, f.alice, consultationID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.True(t, mustDate(t, "2024-03-01").Equal(page.Data[0].ConsultationDate))
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.True(t, page.Pagination.HasNext)

	_, err = f.svc.ListForConsultation(ctx, f.bob, consultationID, 1, 10)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.svc.ListForConsultation(ctx, f.alice, consultationID, 1, 500)
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)
}

func TestHistory_ListMineSpansOwnedConsultations(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	first := f.seedConsultation(t, f.alice)
	second := f.seedConsultation(t, f.alice)
	bobs := f.seedConsultation(t, f.bob)

	for _, id := range []uuid.UUID{first, second} {
		_, err := f.svc.Add(ctx, f.alice, id, sessionRequest("2024-03-01"))
		require.NoError(t, err)
	}
	_, err := f.svc.Add(ctx, f.bob, bobs, sessionRequest("2024-03-01"))
	require.NoError(t, err)

	page, err := f.svc.ListMine(ctx, f.alice, request_models.HistoryListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	for _, e := range page.Data {
		assert.NotEqual(t, bobs, e.ConsultationID)
	}

	page, err = f.svc.ListMine(ctx, f.alice, request_models.HistoryListQuery{ConsultationID: second.String()})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, second, page.Data[0].ConsultationID)

	// another owner's consultation is filtered out, not refused
	page, err = f.svc.ListMine(ctx, f.alice, request_models.HistoryListQuery{ConsultationID: bobs.String()})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.Pagination.Total)

	page, err = f.svc.ListMine(ctx, f.alice, request_models.HistoryListQuery{ConsultationID: uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	_, err = f.svc.ListMine(ctx, f.alice, request_models.HistoryListQuery{ConsultationID: "not-a-uuid"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	empty, err := f.svc.ListMine(ctx, access.Identity{ID: uuid.New(), Role: db_models.RoleUser}, request_models.HistoryListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
}

func TestHistory_ListCarriesConsultationAndPractitioner(t *testing.T) {
	f := newHistoryFixture(t)
	ctx := context.Background()
	id := f.seedConsultation(t, f.alice)

	_, err := f.svc.Add(ctx, f.alice, id, sessionRequest("2024-03-01"))
	require.NoError(t, err)

	page, err := f.svc.ListForConsultation(ctx, f.alice, id, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	entry := page.Data[0]
	require.NotNil(t, entry.Consultation)
	assert.Equal(t, id.String(), entry.Consultation.ID)
	assert.Equal(t, "Ravi", entry.Consultation.Name)
	assert.Equal(t, "9876543210", entry.Consultation.Phone)
	assert.True(t, mustDate(t, "1990-05-17").Equal(entry.Consultation.DateOfBirth))

	require.NotNil(t, entry.ConsultedByUser)
	assert.Equal(t, f.alice.ID.String(), entry.ConsultedByUser.ID)
	assert.Equal(t, "alice@example.com", entry.ConsultedByUser.Email)

	// the practitioner account is gone: the entry is still listed without a summary
	require.NoError(t, f.db.Delete(&db_models.Account{}, "id = ?", f.alice.ID).Error)
	page, err = f.svc.ListMine(ctx, f.alice, request_models.HistoryListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Nil(t, page.Data[0].ConsultedByUser)
	assert.NotNil(t, page.Data[0].Consultation)
}
