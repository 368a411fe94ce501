package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"proconnect_backend/internal/docstore"
	"proconnect_backend/internal/identity"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/validator"
	"proconnect_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// maxReplayAttempts - после стольких неудач намерение больше не проигрывается воркером
const maxReplayAttempts = 5

// RegistrationService - завершение регистрации: журнал намерений + вставка в реляционную БД
type RegistrationService interface {
	// EnsureNotRegistered вызывается до разбора тела: повторная регистрация всегда ALREADY_REGISTERED
	EnsureNotRegistered(db *gorm.DB, uid string) error
	CompleteRegistration(ctx context.Context, db *gorm.DB, claims *identity.Claims, req *dto.CompleteRegistrationRequest) (*dto.RegistrationResponse, error)
	Me(ctx context.Context, db *gorm.DB, claims *identity.Claims) (*dto.MeResponse, error)
	ReconcilePending(ctx context.Context, db *gorm.DB, olderThan time.Time, limit int) (*dto.ReconcileResult, error)
}

type RegistrationServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	roleRepo    repositories.RoleRepository
	intents     docstore.IntentStore
	validator   *validator.Validator
	autoApprove bool
	now         func() time.Time
}

func NewRegistrationService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	roleRepo repositories.RoleRepository,
	intents docstore.IntentStore,
	v *validator.Validator,
	autoApproveAccounts bool,
) RegistrationService {
	return &RegistrationServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		intents:     intents,
		validator:   v,
		autoApprove: autoApproveAccounts,
		now:         time.Now,
	}
}

// registrant - кто регистрируется: из проверенного токена или из намерения
type registrant struct {
	UID   string
	Email string
	Name  string
}

func (s *RegistrationServiceImpl) CompleteRegistration(ctx context.Context, db *gorm.DB, claims *identity.Claims, req *dto.CompleteRegistrationRequest) (*dto.RegistrationResponse, error) {
	if claims == nil || claims.Subject == "" {
		return nil, apperrors.ErrMissingToken
	}
	who := registrant{UID: claims.Subject, Email: claims.Email, Name: claims.Name}

	if err := s.EnsureNotRegistered(db, who.UID); err != nil {
		return nil, err
	}

	if vErr := s.validateRegistration(who, req); vErr.HasErrors() {
		return nil, apperrors.ValidationError(vErr.Issues())
	}

	s.recordIntent(ctx, who, req)

	account, profile, err := s.persist(ctx, db, who, req)
	if err != nil {
		s.markFailed(ctx, who.UID, err)
		return nil, s.registrationError(db, who.UID, err)
	}
	s.markReconciled(ctx, who.UID)

	logger.CtxInfo(ctx, "Registration completed", "user_id", account.ID, "approval_status", account.ApprovalStatus)

	return &dto.RegistrationResponse{
		Success: true,
		User:    account,
		Profile: profile,
	}, nil
}

func (s *RegistrationServiceImpl) EnsureNotRegistered(db *gorm.DB, uid string) error {
	exists, err := s.userRepo.Exists(db, uid)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exists {
		return apperrors.ErrAlreadyRegistered
	}
	return nil
}

func (s *RegistrationServiceImpl) Me(ctx context.Context, db *gorm.DB, claims *identity.Claims) (*dto.MeResponse, error) {
	if claims == nil || claims.Subject == "" {
		return nil, apperrors.ErrMissingToken
	}

	account, err := s.userRepo.FindByID(db, claims.Subject)
	if errors.Is(err, repositories.ErrUserNotFound) {
		account, err = s.replayForLogin(ctx, db, claims.Subject)
	}
	if err != nil {
		return nil, handleRegistrationError(err)
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(db, account.ID, now); err != nil {
		logger.CtxWithError(ctx, "Failed to update last login", err, "user_id", account.ID)
	} else {
		account.LastLogin = &now
	}

	return &dto.MeResponse{
		User:  account,
		Roles: dto.RoleSelectionFromSet(account.Roles),
	}, nil
}

// replayForLogin доводит регистрацию до конца, если в журнале есть незавершенное намерение
func (s *RegistrationServiceImpl) replayForLogin(ctx context.Context, db *gorm.DB, uid string) (*models.Account, error) {
	intent, err := s.intents.Get(ctx, uid)
	if errors.Is(err, docstore.ErrIntentNotFound) {
		return nil, apperrors.ErrAccountNotRegistered
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if intent.Status == docstore.IntentReconciled {
		// Аккаунт был удален после успешной регистрации
		return nil, apperrors.ErrAccountNotRegistered
	}

	logger.CtxInfo(ctx, "Replaying registration intent on login", "user_id", uid, "attempts", intent.Attempts)
	if err := s.replay(ctx, db, intent); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(db, uid)
}

func (s *RegistrationServiceImpl) ReconcilePending(ctx context.Context, db *gorm.DB, olderThan time.Time, limit int) (*dto.ReconcileResult, error) {
	// Исчерпавшие попытки отсекаются в хранилище, иначе они навсегда займут весь батч
	intents, err := s.intents.ListPending(ctx, olderThan, maxReplayAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending intents: %w", err)
	}

	result := &dto.ReconcileResult{}
	for _, intent := range intents {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Processed++
		if err := s.replay(ctx, db, intent); err != nil {
			result.Failed++
			logger.CtxWithError(ctx, "Failed to reconcile registration intent", err, "user_id", intent.UID)
			continue
		}
		result.Reconciled++
	}
	return result, nil
}

// replay проигрывает намерение вперед. Повторный вызов для уже созданного аккаунта ничего не вставляет.
func (s *RegistrationServiceImpl) replay(ctx context.Context, db *gorm.DB, intent *docstore.RegistrationIntent) error {
	exists, err := s.userRepo.Exists(db, intent.UID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exists {
		s.markReconciled(ctx, intent.UID)
		return nil
	}

	var req dto.CompleteRegistrationRequest
	if err := json.Unmarshal(intent.Payload, &req); err != nil {
		s.markFailed(ctx, intent.UID, err)
		return apperrors.InternalError(fmt.Errorf("corrupt registration intent: %w", err))
	}

	who := registrant{UID: intent.UID, Email: intent.Email, Name: intent.Name}
	if vErr := s.validateRegistration(who, &req); vErr.HasErrors() {
		s.markFailed(ctx, intent.UID, vErr)
		return apperrors.ValidationError(vErr.Issues())
	}

	if _, _, err := s.persist(ctx, db, who, &req); err != nil {
		s.markFailed(ctx, intent.UID, err)
		return s.registrationError(db, intent.UID, err)
	}
	s.markReconciled(ctx, intent.UID)
	return nil
}

func (s *RegistrationServiceImpl) validateRegistration(who registrant, req *dto.CompleteRegistrationRequest) *validator.ValidationError {
	out := &validator.ValidationError{}
	if req == nil {
		out.Add("body", "Request body is required")
		return out
	}

	if err := s.validator.Validate(req); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			out.Merge(vErr)
		} else {
			out.Add("body", err.Error())
		}
	}

	if strings.TrimSpace(who.Email) == "" {
		out.Add("email", "Identity token has no email address")
	}

	if req.Roles != nil {
		roles := req.Roles.ToRoleSet(who.UID)
		if roles.Admin {
			out.Add("roles.admin", "The admin role cannot be self-assigned")
		}
		if !roles.HasNonAdminRole() {
			out.Add("roles", "Select at least one role")
		}
	}
	return out
}

// persist вставляет Account, Profile и RoleSet по очереди.
// Общей транзакции нет: при ошибке уже вставленные строки удаляются в обратном порядке.
func (s *RegistrationServiceImpl) persist(ctx context.Context, db *gorm.DB, who registrant, req *dto.CompleteRegistrationRequest) (*models.Account, *models.Profile, error) {
	status := models.ApprovalStatusPending
	if s.autoApprove {
		status = models.ApprovalStatusApproved
	}

	account := &models.Account{
		ID:             who.UID,
		Email:          strings.ToLower(strings.TrimSpace(who.Email)),
		DisplayName:    displayName(who, req.Profile),
		ApprovalStatus: status,
	}
	if err := s.userRepo.Create(db, account); err != nil {
		return nil, nil, err
	}

	profile := profileFromInput(who.UID, req.Profile)
	if err := s.profileRepo.Create(db, profile); err != nil {
		s.compensate(ctx, db, who.UID, false)
		return nil, nil, err
	}

	roles := req.Roles.ToRoleSet(who.UID)
	if err := s.roleRepo.Create(db, roles); err != nil {
		s.compensate(ctx, db, who.UID, true)
		return nil, nil, err
	}

	account.Profile = profile
	account.Roles = roles
	return account, profile, nil
}

// compensate - удаление частично вставленной регистрации. Ошибки только логируются.
// RoleSet вставляется последним, поэтому его удалять не нужно.
func (s *RegistrationServiceImpl) compensate(ctx context.Context, db *gorm.DB, uid string, profileCreated bool) {
	if profileCreated {
		if err := s.profileRepo.Delete(db, uid); err != nil {
			logger.CtxWithError(ctx, "Compensating delete failed", err, "user_id", uid, "row", "user_profiles")
		}
	}
	if err := s.userRepo.Delete(db, uid); err != nil {
		logger.CtxWithError(ctx, "Compensating delete failed", err, "user_id", uid, "row", "users")
	}
	logger.CtxWarn(ctx, "Registration rolled back", "user_id", uid)
}

// registrationError переводит ошибку вставки в ответ клиенту
func (s *RegistrationServiceImpl) registrationError(db *gorm.DB, uid string, err error) error {
	if errors.Is(err, repositories.ErrUserAlreadyExists) {
		// Параллельная регистрация того же uid или email занят другим аккаунтом
		if exists, exErr := s.userRepo.Exists(db, uid); exErr == nil && exists {
			return apperrors.ErrAlreadyRegistered
		}
		return apperrors.ErrEmailAlreadyRegistered
	}
	return apperrors.InternalError(err)
}

func (s *RegistrationServiceImpl) recordIntent(ctx context.Context, who registrant, req *dto.CompleteRegistrationRequest) {
	payload, err := json.Marshal(req)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to encode registration intent", err, "user_id", who.UID)
		return
	}
	intent := &docstore.RegistrationIntent{
		UID:     who.UID,
		Email:   who.Email,
		Name:    who.Name,
		Payload: payload,
	}
	if err := s.intents.Save(ctx, intent); err != nil {
		// Журнал - best effort, регистрация продолжается
		logger.CtxWithError(ctx, "Failed to record registration intent", err, "user_id", who.UID)
	}
}

func (s *RegistrationServiceImpl) markReconciled(ctx context.Context, uid string) {
	if err := s.intents.MarkReconciled(ctx, uid); err != nil && !errors.Is(err, docstore.ErrIntentNotFound) {
		logger.CtxWithError(ctx, "Failed to mark intent reconciled", err, "user_id", uid)
	}
}

func (s *RegistrationServiceImpl) markFailed(ctx context.Context, uid string, cause error) {
	if err := s.intents.MarkFailed(ctx, uid, cause); err != nil && !errors.Is(err, docstore.ErrIntentNotFound) {
		logger.CtxWithError(ctx, "Failed to mark intent failed", err, "user_id", uid)
	}
}

func displayName(who registrant, input *dto.ProfileInput) string {
	if name := strings.TrimSpace(input.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(who.Name); name != "" {
		return name
	}
	return strings.TrimSpace(input.FirstName + " " + input.LastName)
}

func profileFromInput(userID string, input *dto.ProfileInput) *models.Profile {
	return &models.Profile{
		UserID:      userID,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Headline:    input.Headline,
		Bio:         input.Bio,
		Country:     input.Country,
		City:        input.City,
		Phone:       input.Phone,
		LinkedinURL: input.LinkedinURL,
		WebsiteURL:  input.WebsiteURL,
		AvatarURL:   input.AvatarURL,
	}
}

func handleRegistrationError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrAccountNotRegistered
	}
	return apperrors.InternalError(err)
}
