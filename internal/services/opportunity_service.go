package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/validator"
	"proconnect_backend/pkg/apperrors"
)

// PostingPolicy - правило автоодобрения публикаций.
// Передается в Create явно, глобального флага нет.
type PostingPolicy struct {
	AutoApprove bool
	// Types - типы, которые одобряются автоматически. Пустой список - все типы.
	Types []models.OpportunityType
}

func NewPostingPolicy(autoApprove bool, types []string) PostingPolicy {
	policy := PostingPolicy{AutoApprove: autoApprove}
	for _, t := range types {
		ot := models.OpportunityType(strings.TrimSpace(t))
		if ot.IsValid() {
			policy.Types = append(policy.Types, ot)
		}
	}
	return policy
}

// ApprovalFor - начальный статус модерации для нового объявления
func (p PostingPolicy) ApprovalFor(t models.OpportunityType) models.ApprovalStatus {
	if !p.AutoApprove {
		return models.ApprovalStatusPending
	}
	if len(p.Types) == 0 {
		return models.ApprovalStatusApproved
	}
	for _, allowed := range p.Types {
		if allowed == t {
			return models.ApprovalStatusApproved
		}
	}
	return models.ApprovalStatusPending
}

type OpportunityService interface {
	EnsureEmployer(db *gorm.DB, actorID string) error
	Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateOpportunityRequest, policy PostingPolicy) (*models.Opportunity, error)
	Update(ctx context.Context, db *gorm.DB, id, actorID string, req *dto.UpdateOpportunityRequest) (*models.Opportunity, error)
	Delete(ctx context.Context, db *gorm.DB, id, actorID string) error
	Get(db *gorm.DB, id, viewerID string) (*models.Opportunity, error)
	ListPublic(db *gorm.DB, query *dto.ListOpportunitiesQuery, page, pageSize int) (*dto.PaginatedResponse, error)
	ListMine(db *gorm.DB, actorID string) ([]models.Opportunity, error)

	// Admin operations
	ListForReview(db *gorm.DB, query *dto.ReviewOpportunitiesQuery, page, pageSize int) (*dto.PaginatedResponse, error)
	SetApprovalStatus(ctx context.Context, db *gorm.DB, id string, status models.ApprovalStatus) (*models.Opportunity, error)
}

type OpportunityServiceImpl struct {
	opportunityRepo repositories.OpportunityRepository
	roleRepo        repositories.RoleRepository
	userRepo        repositories.UserRepository
	notifier        NotificationService
	validator       *validator.Validator
}

func NewOpportunityService(
	opportunityRepo repositories.OpportunityRepository,
	roleRepo repositories.RoleRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	v *validator.Validator,
) OpportunityService {
	return &OpportunityServiceImpl{
		opportunityRepo: opportunityRepo,
		roleRepo:        roleRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		validator:       v,
	}
}

func (s *OpportunityServiceImpl) EnsureEmployer(db *gorm.DB, actorID string) error {
	return requireRole(db, s.roleRepo, actorID, models.RoleEmployer, apperrors.ErrEmployerRoleRequired)
}

func (s *OpportunityServiceImpl) Create(ctx context.Context, db *gorm.DB, actorID string, req *dto.CreateOpportunityRequest, policy PostingPolicy) (*models.Opportunity, error) {
	if err := s.EnsureEmployer(db, actorID); err != nil {
		return nil, err
	}

	vErr := &validator.ValidationError{}
	mergeValidation(vErr, s.validator.Validate(req))

	var details datatypes.JSON
	if req.Type.IsValid() {
		details = s.normalizeDetails(req.Type, req.Details, vErr)
	}
	if vErr.HasErrors() {
		return nil, apperrors.ValidationError(vErr.Issues())
	}

	opportunity := &models.Opportunity{
		UserID:         actorID,
		Type:           req.Type,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Location:       req.Location,
		Country:        req.Country,
		City:           req.City,
		Details:        details,
		Status:         models.OpportunityStatusOpen,
		ApprovalStatus: policy.ApprovalFor(req.Type),
		Deadline:       req.Deadline,
	}
	if err := s.opportunityRepo.Create(db, opportunity); err != nil {
		return nil, handleOpportunityError(err)
	}

	logger.CtxInfo(ctx, "Opportunity created",
		"opportunity_id", opportunity.ID,
		"type", opportunity.Type,
		"approval_status", opportunity.ApprovalStatus,
	)
	return opportunity, nil
}

func (s *OpportunityServiceImpl) Update(ctx context.Context, db *gorm.DB, id, actorID string, req *dto.UpdateOpportunityRequest) (*models.Opportunity, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	opportunity, err := s.opportunityRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleOpportunityError(err)
	}
	if opportunity.UserID != actorID {
		return nil, apperrors.ErrNotOpportunityOwner
	}

	if stripped := req.StrippedFields(); len(stripped) > 0 {
		logger.CtxWarn(ctx, "Protected fields ignored in opportunity patch", "opportunity_id", id, "fields", stripped)
	}

	vErr := &validator.ValidationError{}
	mergeValidation(vErr, s.validator.Validate(req))

	values := make(map[string]interface{})
	if req.Title != nil {
		values["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.Location != nil {
		values["location"] = *req.Location
	}
	if req.Country != nil {
		values["country"] = *req.Country
	}
	if req.City != nil {
		values["city"] = *req.City
	}
	if req.Status != nil {
		values["status"] = *req.Status
	}
	if req.Deadline != nil {
		values["deadline"] = *req.Deadline
	}
	if len(req.Details) > 0 {
		// Схема деталей берется из сохраненного типа, тип не меняется
		values["details"] = s.normalizeDetails(opportunity.Type, req.Details, vErr)
	}
	if vErr.HasErrors() {
		return nil, apperrors.ValidationError(vErr.Issues())
	}

	if len(values) == 0 {
		return opportunity, nil
	}
	if err := s.opportunityRepo.Update(tx, id, values); err != nil {
		return nil, handleOpportunityError(err)
	}

	updated, err := s.opportunityRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleOpportunityError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Opportunity updated", "opportunity_id", id)
	return updated, nil
}

func (s *OpportunityServiceImpl) Delete(ctx context.Context, db *gorm.DB, id, actorID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	opportunity, err := s.opportunityRepo.FindByID(tx, id)
	if err != nil {
		return handleOpportunityError(err)
	}
	if opportunity.UserID != actorID {
		return apperrors.ErrNotOpportunityOwner
	}
	if err := s.opportunityRepo.Delete(tx, id); err != nil {
		return handleOpportunityError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Opportunity deleted", "opportunity_id", id)
	return nil
}

// Get - непубличное объявление видят только владелец и админ, остальным 404
func (s *OpportunityServiceImpl) Get(db *gorm.DB, id, viewerID string) (*models.Opportunity, error) {
	opportunity, err := s.opportunityRepo.FindByID(db, id)
	if err != nil {
		return nil, handleOpportunityError(err)
	}
	if opportunity.IsPublic() || (viewerID != "" && opportunity.UserID == viewerID) {
		return opportunity, nil
	}
	if viewerID != "" {
		roles, err := s.roleRepo.FindByUserID(db, viewerID)
		if err == nil && roles.Has(models.RoleAdmin) {
			return opportunity, nil
		}
		if err != nil && !errors.Is(err, repositories.ErrRoleSetNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}
	return nil, apperrors.ErrNotFound(repositories.ErrOpportunityNotFound)
}

func (s *OpportunityServiceImpl) ListPublic(db *gorm.DB, query *dto.ListOpportunitiesQuery, page, pageSize int) (*dto.PaginatedResponse, error) {
	filter := repositories.OpportunityFilter{
		Type:     query.Type,
		Country:  query.Country,
		City:     query.City,
		Page:     page,
		PageSize: pageSize,
	}
	items, total, err := s.opportunityRepo.ListPublic(db, filter)
	if err != nil {
		return nil, handleOpportunityError(err)
	}
	return dto.NewPaginatedResponse(items, total, page, pageSize), nil
}

func (s *OpportunityServiceImpl) ListMine(db *gorm.DB, actorID string) ([]models.Opportunity, error) {
	if err := s.EnsureEmployer(db, actorID); err != nil {
		return nil, err
	}
	items, err := s.opportunityRepo.ListByOwner(db, actorID)
	if err != nil {
		return nil, handleOpportunityError(err)
	}
	return items, nil
}

func (s *OpportunityServiceImpl) ListForReview(db *gorm.DB, query *dto.ReviewOpportunitiesQuery, page, pageSize int) (*dto.PaginatedResponse, error) {
	filter := repositories.OpportunityFilter{
		Type:           query.Type,
		ApprovalStatus: query.ApprovalStatus,
		Page:           page,
		PageSize:       pageSize,
	}
	items, total, err := s.opportunityRepo.ListByApproval(db, filter)
	if err != nil {
		return nil, handleOpportunityError(err)
	}
	return dto.NewPaginatedResponse(items, total, page, pageSize), nil
}

func (s *OpportunityServiceImpl) SetApprovalStatus(ctx context.Context, db *gorm.DB, id string, status models.ApprovalStatus) (*models.Opportunity, error) {
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("Invalid approval status")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.opportunityRepo.UpdateApprovalStatus(tx, id, status); err != nil {
		return nil, handleOpportunityError(err)
	}
	opportunity, err := s.opportunityRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleOpportunityError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Opportunity approval status changed", "opportunity_id", id, "status", status)

	owner, err := s.userRepo.FindByID(db, opportunity.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load opportunity owner for notification", err, "opportunity_id", id)
		return opportunity, nil
	}
	s.notifier.OpportunityDecision(ctx, owner, opportunity)
	return opportunity, nil
}

// normalizeDetails разбирает details по схеме типа и возвращает нормализованный JSON.
// Неизвестные ключи отбрасываются, ошибки складываются в vErr с префиксом details.
func (s *OpportunityServiceImpl) normalizeDetails(t models.OpportunityType, raw json.RawMessage, vErr *validator.ValidationError) datatypes.JSON {
	details := dto.NewDetails(t)
	if details == nil {
		vErr.Add("type", "Unknown opportunity type")
		return nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if trimmed[0] != '{' {
		vErr.Add("details", "Must be an object")
		return nil
	}

	if err := json.Unmarshal(trimmed, details); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			vErr.Add("details."+typeErr.Field, "Must be of type "+typeErr.Type.String())
		} else {
			vErr.Add("details", "Malformed details: "+err.Error())
		}
		return nil
	}

	before := len(vErr.Errors)
	mergeValidation(vErr, s.validator.ValidateWithPrefix(details, "details"))
	checkDetails(details, vErr)
	if len(vErr.Errors) > before {
		return nil
	}

	normalized, err := json.Marshal(details)
	if err != nil {
		vErr.Add("details", "Malformed details")
		return nil
	}
	return datatypes.JSON(normalized)
}

// checkDetails - проверки, которые не выражаются тегами
func checkDetails(details interface{}, vErr *validator.ValidationError) {
	switch d := details.(type) {
	case *dto.JobDetails:
		if d.SalaryMin != nil && d.SalaryMin.IsNegative() {
			vErr.Add("details.salaryMin", "Must not be negative")
		}
		if d.SalaryMin != nil && d.SalaryMax != nil && d.SalaryMax.LessThan(*d.SalaryMin) {
			vErr.Add("details.salaryMax", "Must be greater than or equal to salaryMin")
		}
		if d.Currency != "" {
			d.Currency = strings.ToUpper(d.Currency)
		}
	case *dto.InvestmentDetails:
		if d.Amount != nil && !d.Amount.IsPositive() {
			vErr.Add("details.amount", "Must be greater than 0")
		}
		if d.EquityOffered != nil && (!d.EquityOffered.IsPositive() || d.EquityOffered.GreaterThan(decimal.NewFromInt(100))) {
			vErr.Add("details.equityOffered", "Must be greater than 0 and at most 100")
		}
		if d.Currency != "" {
			d.Currency = strings.ToUpper(d.Currency)
		}
	}
}

// requireRole - 403 с переданной ошибкой, если у пользователя нет роли
func requireRole(db *gorm.DB, roleRepo repositories.RoleRepository, userID string, role models.Role, denied *apperrors.AppError) error {
	roles, err := roleRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleSetNotFound) {
			return denied
		}
		return apperrors.InternalError(err)
	}
	if !roles.Has(role) {
		return denied
	}
	return nil
}

// mergeValidation добавляет ошибки валидатора в общий список
func mergeValidation(dst *validator.ValidationError, err error) {
	if err == nil {
		return
	}
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		dst.Merge(vErr)
		return
	}
	dst.Add("body", err.Error())
}

func handleOpportunityError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrOpportunityNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
