package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"astrocrm/internal/models/db_models"
)

type AccountFilter struct {
	Status string
	Role   string
	Page   int
	Limit  int
}

// GroupCount is one row of a GROUP BY count.
type GroupCount struct {
	GroupKey string
	Total    int64
}

type AccountRepository interface {
	InsertTx(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	ApplyDecision(ctx context.Context, id uuid.UUID, decision db_models.ApprovalDecision) (*db_models.Account, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter AccountFilter) ([]db_models.Account, int64, error)
	ListPending(ctx context.Context) ([]db_models.Account, error)
	Count(ctx context.Context) (int64, error)
	CountBy(ctx context.Context, column string) ([]GroupCount, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) InsertTx(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(account).Error
	})
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).Preload("Approver").First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// FindByEmail is an exact, case-sensitive match.
func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// ApplyDecision writes all approval columns in one UPDATE; concurrent decisions are last-write-wins.
// It returns (nil, nil) when the account does not exist.
func (a *accountRepository) ApplyDecision(ctx context.Context, id uuid.UUID, decision db_models.ApprovalDecision) (*db_models.Account, error) {
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(decision.Columns())
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return a.FindById(ctx, id)
}

func (a *accountRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := a.db.WithContext(ctx).Delete(&db_models.Account{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func accountFilterScope(f AccountFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Role != "" {
			db = db.Where("role = ?", f.Role)
		}
		return db
	}
}

func (a *accountRepository) List(ctx context.Context, filter AccountFilter) ([]db_models.Account, int64, error) {
	var total int64
	if err := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Scopes(accountFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accounts []db_models.Account
	err := a.db.WithContext(ctx).
		Scopes(accountFilterScope(filter), Paginate(filter.Page, filter.Limit)).
		Preload("Approver").
		Order(orderBy("created_at", true)).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (a *accountRepository) ListPending(ctx context.Context) ([]db_models.Account, error) {
	var accounts []db_models.Account
	err := a.db.WithContext(ctx).
		Where("status = ?", db_models.StatusPending).
		Order(orderBy("created_at", true)).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (a *accountRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := a.db.WithContext(ctx).Model(&db_models.Account{}).Count(&total).Error
	return total, err
}

// CountBy groups accounts by a column; only "status" and "role" are accepted.
func (a *accountRepository) CountBy(ctx context.Context, column string) ([]GroupCount, error) {
	if column != "status" && column != "role" {
		return nil, errors.New("unsupported group column: " + column)
	}

	var rows []GroupCount
	err := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Order("group_key").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
