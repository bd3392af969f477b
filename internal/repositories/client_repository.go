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

// ClientFilter narrows a client list. OwnerID is mandatory.
type ClientFilter struct {
	OwnerID uuid.UUID
	Search  string
	DOB     *time.Time
}

func (f ClientFilter) ScopedTo(owner uuid.UUID) ClientFilter {
	f.OwnerID = owner
	return f
}

type ClientRepository interface {
	Create(ctx context.Context, client *db_models.Client) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Client, error)
	Update(ctx context.Context, client *db_models.Client, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter ClientFilter) ([]db_models.Client, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *db_models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Client, error) {
	var client db_models.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *db_models.Client, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(client).Omit("created_by").Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(client, "id = ?", client.ID).Error
	})
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&db_models.Client{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]db_models.Client, error) {
	if filter.OwnerID == uuid.Nil {
		return nil, utils.ErrUnscopedOwnerFilter
	}

	q := r.db.WithContext(ctx).Where("created_by = ?", filter.OwnerID)
	if filter.Search != "" {
		q = q.Where(anyColumnContains(filter.Search, "name", "phone", "email"))
	}
	if filter.DOB != nil {
		start, end := utils.DayRange(*filter.DOB)
		q = q.Where("dob >= ? AND dob < ?", start, end)
	}

	var clients []db_models.Client
	if err := q.Order(orderBy("created_at", true)).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}
