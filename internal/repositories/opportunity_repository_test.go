package repositories

import (
	"fmt"
	"testing"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newOpportunity(owner string, typ models.OpportunityType, approval models.ApprovalStatus, status models.OpportunityStatus) *models.Opportunity {
	return &models.Opportunity{
		UserID:         owner,
		Type:           typ,
		Title:          fmt.Sprintf("%s %s %s", typ, approval, status),
		Description:    "description",
		Details:        datatypes.JSON(`{}`),
		Status:         status,
		ApprovalStatus: approval,
	}
}

func TestOpportunityRepository_ListPublicOnlyApprovedAndOpen(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOpportunityRepository()
	testutil.CreateAccount(t, db, "emp", models.RoleEmployer)

	types := []models.OpportunityType{
		models.OpportunityTypeJob, models.OpportunityTypeInvestment,
		models.OpportunityTypePartnership, models.OpportunityTypeCollaboration,
	}
	approvals := []models.ApprovalStatus{
		models.ApprovalStatusPending, models.ApprovalStatusApproved, models.ApprovalStatusRejected,
	}
	statuses := []models.OpportunityStatus{models.OpportunityStatusOpen, models.OpportunityStatusClosed}

	for _, typ := range types {
		for _, approval := range approvals {
			for _, status := range statuses {
				require.NoError(t, repo.Create(db, newOpportunity("emp", typ, approval, status)))
			}
		}
	}

	all, total, err := repo.ListPublic(db, OpportunityFilter{PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(len(types)), total)
	require.Len(t, all, len(types))
	for _, o := range all {
		assert.Equal(t, models.ApprovalStatusApproved, o.ApprovalStatus)
		assert.Equal(t, models.OpportunityStatusOpen, o.Status)
		assert.True(t, o.IsPublic())
	}

	jobs, total, err := repo.ListPublic(db, OpportunityFilter{Type: models.OpportunityTypeJob})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.OpportunityTypeJob, jobs[0].Type)

	// Фильтр по статусу одобрения не ослабляет публичную выборку
	leaked, _, err := repo.ListPublic(db, OpportunityFilter{ApprovalStatus: models.ApprovalStatusPending})
	require.NoError(t, err)
	for _, o := range leaked {
		assert.True(t, o.IsPublic())
	}

	mine, err := repo.ListByOwner(db, "emp")
	require.NoError(t, err)
	assert.Len(t, mine, len(types)*len(approvals)*len(statuses))

	pending, total, err := repo.ListByApproval(db, OpportunityFilter{ApprovalStatus: models.ApprovalStatusPending, PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(len(types)*len(statuses)), total)
	assert.Len(t, pending, len(types)*len(statuses))
}

func TestOpportunityRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOpportunityRepository()
	applications := NewApplicationRepository()
	testutil.CreateAccount(t, db, "emp", models.RoleEmployer)
	testutil.CreateAccount(t, db, "seeker", models.RoleJobSeeker)

	opp := newOpportunity("emp", models.OpportunityTypeJob, models.ApprovalStatusApproved, models.OpportunityStatusOpen)
	require.NoError(t, repo.Create(db, opp))
	assert.NotEmpty(t, opp.ID)

	require.NoError(t, repo.Update(db, opp.ID, map[string]interface{}{
		"title":  "Renamed",
		"status": models.OpportunityStatusClosed,
	}))
	found, err := repo.FindByID(db, opp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Title)
	assert.Equal(t, models.OpportunityStatusClosed, found.Status)

	require.NoError(t, repo.UpdateApprovalStatus(db, opp.ID, models.ApprovalStatusRejected))
	found, err = repo.FindByID(db, opp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusRejected, found.ApprovalStatus)

	require.NoError(t, applications.Create(db, &models.Application{
		UserID: "seeker", OpportunityID: opp.ID, Status: models.ApplicationStatusApplied,
	}))

	require.NoError(t, repo.Delete(db, opp.ID))
	_, err = repo.FindByID(db, opp.ID)
	assert.ErrorIs(t, err, ErrOpportunityNotFound)
	assert.ErrorIs(t, repo.Delete(db, opp.ID), ErrOpportunityNotFound)

	left, err := applications.ListByUser(db, "seeker")
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, repo.Update(db, "missing", map[string]interface{}{"title": "x"}), ErrOpportunityNotFound)
}

func TestApplicationRepository_UniquePerUserAndOpportunity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewApplicationRepository()
	opportunities := NewOpportunityRepository()
	testutil.CreateAccount(t, db, "emp", models.RoleEmployer)
	testutil.CreateAccount(t, db, "seeker", models.RoleJobSeeker)

	opp := newOpportunity("emp", models.OpportunityTypeJob, models.ApprovalStatusApproved, models.OpportunityStatusOpen)
	require.NoError(t, opportunities.Create(db, opp))

	first := &models.Application{UserID: "seeker", OpportunityID: opp.ID, Status: models.ApplicationStatusApplied}
	require.NoError(t, repo.Create(db, first))

	second := &models.Application{UserID: "seeker", OpportunityID: opp.ID, Status: models.ApplicationStatusApplied}
	assert.ErrorIs(t, repo.Create(db, second), ErrApplicationAlreadyExists)

	require.NoError(t, repo.UpdateStatus(db, first.ID, models.ApplicationStatusInterview))
	found, err := repo.FindByID(db, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusInterview, found.Status)
	require.NotNil(t, found.Opportunity)
	assert.Equal(t, opp.ID, found.Opportunity.ID)

	byOpp, err := repo.ListByOpportunity(db, opp.ID)
	require.NoError(t, err)
	assert.Len(t, byOpp, 1)

	assert.ErrorIs(t, repo.UpdateStatus(db, "missing", models.ApplicationStatusOffer), ErrApplicationNotFound)
}
