package models

import (
	"strings"

	"github.com/medilink/medilink/utils"
)

const DEFAULT_ALLERGY_SEVERITY = "moderate"

var allergySeverities = []string{"mild", "moderate", "severe", "life-threatening"}

// Allergy is placed last on creation, like medicines and diagnoses.
type Allergy struct {
	PageItem
	Name     string `json:"name" gorm:"not null"`
	Severity string `json:"severity" gorm:"not null;default:moderate"`
	Reaction string `json:"reaction"`
}

// AllergyInput is used for both create and update. A severity left out of an
// update keeps the stored one; an unknown severity becomes moderate.
type AllergyInput struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Severity *string `json:"severity"`
	Reaction *string `json:"reaction" validate:"omitempty,max=500"`
}

func (input *AllergyInput) normalize() error {
	input.Name = strings.TrimSpace(input.Name)
	input.Reaction = trimPtr(input.Reaction)

	if input.Severity != nil {
		severity := utils.ValueOrDefault(*input.Severity, allergySeverities, DEFAULT_ALLERGY_SEVERITY)
		input.Severity = &severity
	}

	return validateStruct(input)
}

func (input *AllergyInput) fields() map[string]interface{} {
	data := map[string]interface{}{"name": input.Name}
	setIfPresent(data, "severity", input.Severity)
	setIfPresent(data, "reaction", input.Reaction)

	return data
}

func (page *Page) ListAllergies() ([]Allergy, error) {
	return listOrdered[Allergy](page.ID, "allergy")
}

func (page *Page) AddAllergy(input AllergyInput) (*Allergy, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	allergy := Allergy{
		Name:     input.Name,
		Severity: DEFAULT_ALLERGY_SEVERITY,
		Reaction: stringOrEmpty(input.Reaction),
	}
	if input.Severity != nil {
		allergy.Severity = *input.Severity
	}

	err = createOrdered(page.ID, &allergy, "allergy")
	if err != nil {
		return nil, err
	}

	return &allergy, nil
}

func (page *Page) UpdateAllergy(id uint, input AllergyInput) (*Allergy, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	err = updateOwned(&Allergy{}, page.ID, id, input.fields(), "allergy")
	if err != nil {
		return nil, err
	}

	allergy := Allergy{}
	err = findOwned(&allergy, page.ID, id, "allergy")
	if err != nil {
		return nil, err
	}

	return &allergy, nil
}

func (page *Page) DeleteAllergy(id uint) error {
	return deleteOwned(&Allergy{}, page.ID, id, "allergy")
}

func (page *Page) ReorderAllergies(ids []uint) error {
	return reorderOwned(&Allergy{}, page.ID, ids, "allergy")
}
