package models

import (
	"strings"

	"github.com/medilink/medilink/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DEFAULT_THEME = "light"

var pageThemes = []string{"light", "dark", "high-contrast"}

// Page is a user's public medical profile. Every medicine, allergy, diagnosis
// and emergency contact hangs off exactly one page.
type Page struct {
	BaseModel
	UserID            uint               `json:"userId" gorm:"not null;uniqueIndex"`
	Title             string             `json:"title"`
	Theme             string             `json:"theme" gorm:"not null;default:light"`
	IsPublic          bool               `json:"isPublic" gorm:"not null;default:false"`
	Settings          datatypes.JSON     `json:"settings,omitempty"`
	Medicines         []Medicine         `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Allergies         []Allergy          `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Diagnoses         []Diagnosis        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	EmergencyContacts []EmergencyContact `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// PageInput holds the page settings a user may change. Nil fields are left as is.
type PageInput struct {
	Title    *string         `json:"title" validate:"omitempty,max=100"`
	Theme    *string         `json:"theme"`
	IsPublic *bool           `json:"isPublic"`
	Settings *datatypes.JSON `json:"settings"`
}

// Profile is the read-only view served behind a user's public link
type Profile struct {
	Username          string             `json:"username"`
	Title             string             `json:"title"`
	Theme             string             `json:"theme"`
	Medicines         []Medicine         `json:"medicines"`
	Allergies         []Allergy          `json:"allergies"`
	Diagnoses         []Diagnosis        `json:"diagnoses"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
}

func (input *PageInput) normalize() error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}

	if input.Theme != nil {
		theme := utils.ValueOrDefault(*input.Theme, pageThemes, DEFAULT_THEME)
		input.Theme = &theme
	}

	return validateStruct(input)
}

// FindPageByUser resolves the single page owned by userID. A user without a
// page gets a NotFoundError; a page is never created implicitly.
func FindPageByUser(userID uint) (*Page, error) {
	page := Page{}
	err := db.First(&page, "user_id = ?", userID).Error
	if err != nil {
		return nil, translateError(err, "page")
	}

	return &page, nil
}

func CreatePage(userID uint, input PageInput) (*Page, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	page := Page{UserID: userID, Theme: DEFAULT_THEME}
	if input.Title != nil {
		page.Title = *input.Title
	}
	if input.Theme != nil {
		page.Theme = *input.Theme
	}
	if input.IsPublic != nil {
		page.IsPublic = *input.IsPublic
	}
	if input.Settings != nil {
		page.Settings = *input.Settings
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Page{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			return &ConflictError{Message: "page already exists"}
		}

		return tx.Create(&page).Error
	})
	if err != nil {
		return nil, translateError(err, "page")
	}

	return &page, nil
}

func (page *Page) Update(input PageInput) error {
	err := input.normalize()
	if err != nil {
		return err
	}

	data := map[string]interface{}{}
	if input.Title != nil {
		data["title"] = *input.Title
	}
	if input.Theme != nil {
		data["theme"] = *input.Theme
	}
	if input.IsPublic != nil {
		data["is_public"] = *input.IsPublic
	}
	if input.Settings != nil {
		data["settings"] = *input.Settings
	}

	if len(data) == 0 {
		return newValidationError("valid fields required")
	}

	err = db.Model(&Page{}).Where("id = ? AND user_id = ?", page.ID, page.UserID).Updates(data).Error
	if err != nil {
		return translateError(err, "page")
	}

	return translateError(db.First(page, "id = ?", page.ID).Error, "page")
}

// PublicProfile returns the profile published under username. Private pages
// and unknown usernames are both reported as not found.
func PublicProfile(username string) (*Profile, error) {
	user, err := FindUserByUsername(username)
	if err != nil {
		return nil, maskNotFound(err, "profile")
	}

	page, err := FindPageByUser(user.ID)
	if err != nil {
		return nil, maskNotFound(err, "profile")
	}

	if !page.IsPublic {
		return nil, notFound("profile")
	}

	profile := Profile{Username: user.UsernameValue(), Title: page.Title, Theme: page.Theme}

	if profile.Medicines, err = page.ListMedicines(); err != nil {
		return nil, err
	}
	if profile.Allergies, err = page.ListAllergies(); err != nil {
		return nil, err
	}
	if profile.Diagnoses, err = page.ListDiagnoses(); err != nil {
		return nil, err
	}
	if profile.EmergencyContacts, err = page.ListEmergencyContacts(); err != nil {
		return nil, err
	}

	return &profile, nil
}
