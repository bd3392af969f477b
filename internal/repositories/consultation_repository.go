package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"astrocrm/internal/models/db_models"
	"astrocrm/pkg/utils"
)

// ConsultationSortColumns maps the accepted sortBy values to columns.
var ConsultationSortColumns = map[string]string{
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
	"name":             "name",
	"consultationDate": "consultation_date",
	"dateOfBirth":      "date_of_birth",
}

var consultationSearchColumns = []string{
	"name", "father_name", "mother_name", "grandfather_name", "phone", "email", "place_of_birth",
}

// ConsultationFilter narrows a consultation list. OwnerID is mandatory: List refuses an unscoped filter.
type ConsultationFilter struct {
	OwnerID    uuid.UUID
	CategoryID *uuid.UUID
	ClientID   *uuid.UUID
	DOB        *time.Time
	Name       string
	Search     string
	Status     string
	SortBy     string
	SortDesc   bool
	Page       int
	Limit      int
}

func (f ConsultationFilter) ScopedTo(owner uuid.UUID) ConsultationFilter {
	f.OwnerID = owner
	return f
}

type ConsultationRepository interface {
	Create(ctx context.Context, consultation *db_models.Consultation) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Consultation, error)
	Update(ctx context.Context, consultation *db_models.Consultation, fields map[string]interface{}, categories *[]db_models.Category) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter ConsultationFilter) ([]db_models.Consultation, int64, error)
	ListIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uuid.UUID, error)
}

type consultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) ConsultationRepository {
	return &consultationRepository{db: db}
}

// Create inserts the consultation and links its categories, which must already exist.
func (r *consultationRepository) Create(ctx context.Context, consultation *db_models.Consultation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Categories.*").Create(consultation).Error
	})
}

func (r *consultationRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Consultation, error) {
	var consultation db_models.Consultation
	err := r.db.WithContext(ctx).Preload("Categories").First(&consultation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

// Update applies a partial column update and, when categories is non-nil, replaces the category set.
// The in-memory consultation is reloaded afterwards.
func (r *consultationRepository) Update(ctx context.Context, consultation *db_models.Consultation, fields map[string]interface{}, categories *[]db_models.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(consultation).Omit("created_by").Updates(fields).Error; err != nil {
				return err
			}
		}
		if categories != nil {
			if err := tx.Model(consultation).Omit("Categories.*").Association("Categories").Replace(*categories); err != nil {
				return err
			}
		}
		return tx.Preload("Categories").First(consultation, "id = ?", consultation.ID).Error
	})
}

func (r *consultationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		consultation := db_models.Consultation{BaseModel: db_models.BaseModel{ID: id}}
		if err := tx.Model(&consultation).Association("Categories").Clear(); err != nil {
			return err
		}
		res := tx.Delete(&db_models.Consultation{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func consultationFilterScope(f ConsultationFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("created_by = ?", f.OwnerID)
		if f.CategoryID != nil {
			db = db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Table("consultation_categories").
				Select("consultation_id").
				Where("category_id = ?", *f.CategoryID))
		}
		if f.ClientID != nil {
			db = db.Where("client_id = ?", *f.ClientID)
		}
		if f.DOB != nil {
			start, end := utils.DayRange(*f.DOB)
			db = db.Where("date_of_birth >= ? AND date_of_birth < ?", start, end)
		}
		if f.Name != "" {
			db = db.Where(anyColumnContains(f.Name, "name"))
		}
		if f.Search != "" {
			db = db.Where(anyColumnContains(f.Search, consultationSearchColumns...))
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		return db
	}
}

func (r *consultationRepository) List(ctx context.Context, filter ConsultationFilter) ([]db_models.Consultation, int64, error) {
	if filter.OwnerID == uuid.Nil {
		return nil, 0, utils.ErrUnscopedOwnerFilter
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&db_models.Consultation{}).
		Scopes(consultationFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := ConsultationSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}

	var consultations []db_models.Consultation
	err := r.db.WithContext(ctx).
		Scopes(consultationFilterScope(filter), Paginate(filter.Page, filter.Limit)).
		Preload("Categories").
		Order(orderBy(column, filter.SortDesc)).
		Find(&consultations).Error
	if err != nil {
		return nil, 0, err
	}
	return consultations, total, nil
}

func (r *consultationRepository) ListIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.Consultation{}).
		Where("created_by = ?", owner).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
