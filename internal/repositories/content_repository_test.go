package repositories

import (
	"testing"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepository_VideosPublishedOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewContentRepository()

	published := &models.Video{Title: "Intro", URL: "https://video.example.com/1", Published: true, SortOrder: 2}
	draft := &models.Video{Title: "Draft", URL: "https://video.example.com/2"}
	first := &models.Video{Title: "First", URL: "https://video.example.com/3", Published: true, SortOrder: 1}
	require.NoError(t, repo.CreateVideo(db, published))
	require.NoError(t, repo.CreateVideo(db, draft))
	require.NoError(t, repo.CreateVideo(db, first))

	public, err := repo.ListVideos(db, true)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "First", public[0].Title)
	assert.Equal(t, "Intro", public[1].Title)

	all, err := repo.ListVideos(db, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	draft.Published = true
	draft.Title = "Released"
	require.NoError(t, repo.UpdateVideo(db, draft))
	found, err := repo.FindVideoByID(db, draft.ID)
	require.NoError(t, err)
	assert.True(t, found.Published)
	assert.Equal(t, "Released", found.Title)

	// Полное обновление сбрасывает и false-поля
	found.Published = false
	require.NoError(t, repo.UpdateVideo(db, found))
	found, err = repo.FindVideoByID(db, draft.ID)
	require.NoError(t, err)
	assert.False(t, found.Published)

	require.NoError(t, repo.DeleteVideo(db, draft.ID))
	assert.ErrorIs(t, repo.DeleteVideo(db, draft.ID), ErrVideoNotFound)
	assert.ErrorIs(t, repo.UpdateVideo(db, &models.Video{BaseModel: models.BaseModel{ID: "missing"}}), ErrVideoNotFound)
}

func TestContentRepository_LeadersAndGallery(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewContentRepository()

	require.NoError(t, repo.CreateLeader(db, &models.Leader{Name: "Grace", Published: true}))
	require.NoError(t, repo.CreateLeader(db, &models.Leader{Name: "Hidden"}))
	leaders, err := repo.ListLeaders(db, true)
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	assert.Equal(t, "Grace", leaders[0].Name)

	image := &models.GalleryImage{
		Title:      "Summit",
		StorageKey: "gallery/a.jpg",
		ImageURL:   "/uploads/gallery/a.jpg",
		MimeType:   "image/jpeg",
		Size:       1024,
	}
	require.NoError(t, repo.CreateGalleryImage(db, image))
	images, err := repo.ListGalleryImages(db, true)
	require.NoError(t, err)
	assert.Empty(t, images)

	found, err := repo.FindGalleryImageByID(db, image.ID)
	require.NoError(t, err)
	assert.Equal(t, "gallery/a.jpg", found.StorageKey)

	require.NoError(t, repo.DeleteGalleryImage(db, image.ID))
	_, err = repo.FindGalleryImageByID(db, image.ID)
	assert.ErrorIs(t, err, ErrGalleryImageNotFound)
}

func TestGeoRepository_CountriesAndCities(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGeoRepository()

	kz := &models.Country{Code: "kz", Name: "Kazakhstan", Enabled: true}
	de := &models.Country{Code: "DE", Name: "Germany"}
	require.NoError(t, repo.CreateCountry(db, kz))
	require.NoError(t, repo.CreateCountry(db, de))
	assert.Equal(t, "KZ", kz.Code)
	assert.ErrorIs(t, repo.CreateCountry(db, &models.Country{Code: "KZ", Name: "Dup"}), ErrCountryAlreadyExists)

	enabled, err := repo.ListCountries(db, true)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "KZ", enabled[0].Code)

	require.NoError(t, repo.UpdateCountry(db, de.ID, map[string]interface{}{"enabled": true, "display_name": "Deutschland"}))
	enabled, err = repo.ListCountries(db, true)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)

	almaty := &models.City{CountryID: kz.ID, Name: "Almaty", Enabled: true}
	astana := &models.City{CountryID: kz.ID, Name: "Astana"}
	require.NoError(t, repo.CreateCity(db, almaty))
	require.NoError(t, repo.CreateCity(db, astana))
	assert.ErrorIs(t, repo.CreateCity(db, &models.City{CountryID: "missing", Name: "Nowhere"}), ErrCountryNotFound)

	cities, err := repo.ListCities(db, kz.ID, true)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Almaty", cities[0].Name)

	require.NoError(t, repo.DeleteCountry(db, kz.ID))
	_, err = repo.FindCityByID(db, almaty.ID)
	assert.ErrorIs(t, err, ErrCityNotFound)
	assert.ErrorIs(t, repo.UpdateCity(db, almaty.ID, map[string]interface{}{"enabled": false}), ErrCityNotFound)
}

func TestMembershipRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMembershipRepository()
	testutil.CreateAccount(t, db, "u1", models.RoleProfessional)

	gold := &models.MembershipTier{Name: "Gold", Price: decimal.RequireFromString("99.90"), Currency: "USD", Active: true}
	legacy := &models.MembershipTier{Name: "Legacy", Price: decimal.NewFromInt(10), Currency: "USD"}
	require.NoError(t, repo.CreateTier(db, gold))
	require.NoError(t, repo.CreateTier(db, legacy))
	assert.ErrorIs(t, repo.CreateTier(db, &models.MembershipTier{Name: "Gold", Currency: "USD"}), ErrTierAlreadyExists)

	active, err := repo.ListTiers(db, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, decimal.RequireFromString("99.9").Equal(active[0].Price))

	application := &models.MembershipApplication{UserID: "u1", TierID: gold.ID, Status: models.ApprovalStatusPending}
	require.NoError(t, repo.CreateApplication(db, application))
	assert.ErrorIs(t, repo.CreateApplication(db, &models.MembershipApplication{
		UserID: "u1", TierID: gold.ID, Status: models.ApprovalStatusPending,
	}), ErrMembershipApplicationPending)

	require.NoError(t, repo.UpdateApplicationStatus(db, application.ID, models.ApprovalStatusApproved))
	found, err := repo.FindApplicationByID(db, application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, found.Status)
	require.NotNil(t, found.Tier)
	assert.Equal(t, "Gold", found.Tier.Name)

	pending, err := repo.ListApplications(db, models.ApprovalStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	mine, err := repo.ListApplicationsByUser(db, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, repo.DeleteTier(db, gold.ID))
	_, err = repo.FindApplicationByID(db, application.ID)
	assert.ErrorIs(t, err, ErrMembershipApplicationNotFound)
}
