package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"astrocrm/internal/models/db_models"
)

type ConsultationHistoryRepository interface {
	Create(ctx context.Context, entry *db_models.ConsultationHistory) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.ConsultationHistory, error)
	Update(ctx context.Context, entry *db_models.ConsultationHistory, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// ListByConsultations returns entries of any of the given consultations, newest session first.
	ListByConsultations(ctx context.Context, consultationIDs []uuid.UUID, page, limit int) ([]db_models.ConsultationHistory, int64, error)
	// LoadRefs fetches the display fields of the consultations and practitioners the entries point at.
	// Missing records are simply absent from the maps.
	LoadRefs(ctx context.Context, entries []db_models.ConsultationHistory) (*HistoryRefs, error)
}

type HistoryRefs struct {
	Consultations map[uuid.UUID]*db_models.Consultation
	Accounts      map[uuid.UUID]*db_models.Account
}

type consultationHistoryRepository struct {
	db *gorm.DB
}

func NewConsultationHistoryRepository(db *gorm.DB) ConsultationHistoryRepository {
	return &consultationHistoryRepository{db: db}
}

func (r *consultationHistoryRepository) Create(ctx context.Context, entry *db_models.ConsultationHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *consultationHistoryRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.ConsultationHistory, error) {
	var entry db_models.ConsultationHistory
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *consultationHistoryRepository) Update(ctx context.Context, entry *db_models.ConsultationHistory, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entry).Omit("consultation_id", "consulted_by").Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(entry, "id = ?", entry.ID).Error
	})
}

func (r *consultationHistoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&db_models.ConsultationHistory{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *consultationHistoryRepository) ListByConsultations(ctx context.Context, consultationIDs []uuid.UUID, page, limit int) ([]db_models.ConsultationHistory, int64, error) {
	if len(consultationIDs) == 0 {
		return []db_models.ConsultationHistory{}, 0, nil
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&db_models.ConsultationHistory{}).
		Where("consultation_id IN ?", consultationIDs).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []db_models.ConsultationHistory
	err := r.db.WithContext(ctx).
		Where("consultation_id IN ?", consultationIDs).
		Scopes(Paginate(page, limit)).
		Order(orderBy("consultation_date", true)).
		Order(orderBy("created_at", true)).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *consultationHistoryRepository) LoadRefs(ctx context.Context, entries []db_models.ConsultationHistory) (*HistoryRefs, error) {
	refs := &HistoryRefs{
		Consultations: map[uuid.UUID]*db_models.Consultation{},
		Accounts:      map[uuid.UUID]*db_models.Account{},
	}

	consultationIDs := make([]uuid.UUID, 0, len(entries))
	accountIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		consultationIDs = append(consultationIDs, e.ConsultationID)
		if e.ConsultedBy != nil {
			accountIDs = append(accountIDs, *e.ConsultedBy)
		}
	}

	if len(consultationIDs) > 0 {
		var consultations []db_models.Consultation
		err := r.db.WithContext(ctx).
			Select("id", "name", "phone", "date_of_birth").
			Where("id IN ?", consultationIDs).
			Find(&consultations).Error
		if err != nil {
			return nil, err
		}
		for i := range consultations {
			refs.Consultations[consultations[i].ID] = &consultations[i]
		}
	}

	if len(accountIDs) > 0 {
		var accounts []db_models.Account
		err := r.db.WithContext(ctx).
			Select("id", "name", "email").
			Where("id IN ?", accountIDs).
			Find(&accounts).Error
		if err != nil {
			return nil, err
		}
		for i := range accounts {
			refs.Accounts[accounts[i].ID] = &accounts[i]
		}
	}
	return refs, nil
}
