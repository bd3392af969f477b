package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"astrocrm/internal/access"
	"astrocrm/internal/config"
	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/models/response_models"
	"astrocrm/internal/repositories"
	"astrocrm/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.RegisterResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	Profile(ctx context.Context, caller access.Identity) (*response_models.AccountResponse, error)
	SeedDefaultAdmin(ctx context.Context) error
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	tokens      *utils.TokenManager
	cfg         config.AuthConfig
	log         *logrus.Logger
	now         func() time.Time
}

func NewAccountService(accountRepo repositories.AccountRepository, tokens *utils.TokenManager, cfg config.AuthConfig, log *logrus.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		tokens:      tokens,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// Register always creates a pending, unapproved account.
func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.RegisterResponse, error) {
	role := db_models.RoleUser
	if request.Role != "" && request.Role != db_models.RoleUser {
		if !a.cfg.AllowRoleOnRegister {
			return nil, utils.Forbidden("Registration cannot assign the requested role")
		}
		role = request.Role
	}

	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.DatabaseError("find account by email", err)
	}
	if existingAccount != nil {
		return nil, utils.Conflict("User already exists")
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	newAccount := &db_models.Account{
		Name:         request.Name,
		Email:        request.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		IsApproved:   false,
		Status:       db_models.StatusPending,
	}

	if err := a.accountRepo.InsertTx(ctx, newAccount); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict("User already exists")
		}
		return nil, utils.DatabaseError("insert account", err)
	}

	a.log.WithFields(logrus.Fields{"user_id": newAccount.ID, "role": role}).Info("Account registered, awaiting approval")

	return &response_models.RegisterResponse{
		UserID: newAccount.ID.String(),
		Status: newAccount.Status,
	}, nil
}

// Login never reveals whether the e-mail exists. Approval is checked only after the password matches.
func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.DatabaseError("find account by email", err)
	}
	if account == nil {
		return nil, utils.NewServiceError(utils.ErrInvalidCredentials, "Invalid credentials")
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.NewServiceError(utils.ErrInvalidCredentials, "Invalid credentials")
	}

	if err := access.CheckApproval(account); err != nil {
		a.log.WithFields(logrus.Fields{"user_id": account.ID, "status": account.Status}).Info("Login blocked by approval gate")
		return nil, err
	}

	token, err := a.tokens.CreateToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}

	return &response_models.AccountLoginResponse{
		Token: token,
		User:  response_models.NewAccountResponse(account),
	}, nil
}

func (a *AccountService) Profile(ctx context.Context, caller access.Identity) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindById(ctx, caller.ID)
	if err != nil {
		return nil, utils.DatabaseError("find account", err)
	}
	if account == nil {
		return nil, utils.NotFound("User not found")
	}
	resp := response_models.NewAccountResponse(account)
	return &resp, nil
}

// SeedDefaultAdmin creates the configured administrator once. Without both an e-mail and a
// password configured it does nothing.
func (a *AccountService) SeedDefaultAdmin(ctx context.Context) error {
	if a.cfg.DefaultAdminEmail == "" || a.cfg.DefaultAdminPassword == "" {
		a.log.Debug("Default admin not configured, skipping seed")
		return nil
	}

	existing, err := a.accountRepo.FindByEmail(ctx, a.cfg.DefaultAdminEmail)
	if err != nil {
		return utils.DatabaseError("find default admin", err)
	}
	if existing != nil {
		a.log.WithField("email", existing.Email).Info("Default admin already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(a.cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}

	now := a.now()
	admin := &db_models.Account{
		BaseModel:    db_models.BaseModel{ID: uuid.New()},
		Name:         a.cfg.DefaultAdminName,
		Email:        a.cfg.DefaultAdminEmail,
		PasswordHash: hashedPassword,
		Role:         db_models.RoleAdmin,
	}
	admin.ApplyDecision(db_models.ApproveDecision(admin.ID, now))

	if err := a.accountRepo.InsertTx(ctx, admin); err != nil {
		return utils.DatabaseError("insert default admin", err)
	}

	a.log.WithField("email", admin.Email).Info("Default admin created")
	return nil
}
