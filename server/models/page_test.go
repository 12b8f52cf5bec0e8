package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFindPageByUser(t *testing.T) {
	InitializeTestDb()
	user := createTestUser(t)

	_, err := FindPageByUser(user.ID)
	var notFoundErr *NotFoundError
	assert.True(t, errors.As(err, &notFoundErr), "A user without a page should get not found")

	theme := "neon"
	page, err := CreatePage(user.ID, PageInput{Theme: &theme})
	require.Nil(t, err)
	assert.Equal(t, DEFAULT_THEME, page.Theme, "Unknown themes fall back to the default")
	assert.False(t, page.IsPublic)

	found, err := FindPageByUser(user.ID)
	require.Nil(t, err)
	assert.Equal(t, page.ID, found.ID)

	_, err = CreatePage(user.ID, PageInput{})
	var conflictErr *ConflictError
	assert.True(t, errors.As(err, &conflictErr), "A user owns at most one page")
}

func TestPageUpdate(t *testing.T) {
	InitializeTestDb()
	_, page := createTestPage(t)

	title := "  My medical info "
	public := true
	settings := datatypes.JSON(`{"showBloodType":true}`)
	err := page.Update(PageInput{Title: &title, IsPublic: &public, Settings: &settings})
	require.Nil(t, err)

	assert.Equal(t, "My medical info", page.Title)
	assert.True(t, page.IsPublic)
	assert.JSONEq(t, `{"showBloodType":true}`, string(page.Settings))

	var validationErr *ValidationError
	assert.True(t, errors.As(page.Update(PageInput{}), &validationErr), "An empty update is rejected")
}

func TestPublicProfile(t *testing.T) {
	InitializeTestDb()
	user, page := createTestPage(t)

	_, err := SetUsername(user.ID, "jane-doe")
	require.Nil(t, err)

	_, err = page.AddMedicine(MedicineInput{Name: "Insulin"})
	require.Nil(t, err)
	_, err = page.AddAllergy(AllergyInput{Name: "Penicillin"})
	require.Nil(t, err)

	var notFoundErr *NotFoundError
	_, err = PublicProfile("jane-doe")
	assert.True(t, errors.As(err, &notFoundErr), "Private pages are not served")

	_, err = PublicProfile("nobody")
	assert.True(t, errors.As(err, &notFoundErr))

	public := true
	require.Nil(t, page.Update(PageInput{IsPublic: &public}))

	profile, err := PublicProfile("jane-doe")
	require.Nil(t, err)
	assert.Equal(t, "jane-doe", profile.Username)
	require.Len(t, profile.Medicines, 1)
	assert.Equal(t, "Insulin", profile.Medicines[0].Name)
	require.Len(t, profile.Allergies, 1)
	assert.Empty(t, profile.Diagnoses)
	assert.NotNil(t, profile.EmergencyContacts)
}
