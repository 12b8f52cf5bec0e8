package models

import "strings"

type Medicine struct {
	PageItem
	Name      string `json:"name" gorm:"not null"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// MedicineInput is used for both create and update. Optional fields left out
// of an update keep their stored value; an empty string clears them.
type MedicineInput struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Dosage    *string `json:"dosage" validate:"omitempty,max=200"`
	Frequency *string `json:"frequency" validate:"omitempty,max=200"`
}

func (input *MedicineInput) normalize() error {
	input.Name = strings.TrimSpace(input.Name)
	input.Dosage = trimPtr(input.Dosage)
	input.Frequency = trimPtr(input.Frequency)

	return validateStruct(input)
}

func (input *MedicineInput) fields() map[string]interface{} {
	data := map[string]interface{}{"name": input.Name}
	setIfPresent(data, "dosage", input.Dosage)
	setIfPresent(data, "frequency", input.Frequency)

	return data
}

func (page *Page) ListMedicines() ([]Medicine, error) {
	return listOrdered[Medicine](page.ID, "medicine")
}

func (page *Page) AddMedicine(input MedicineInput) (*Medicine, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	medicine := Medicine{
		Name:      input.Name,
		Dosage:    stringOrEmpty(input.Dosage),
		Frequency: stringOrEmpty(input.Frequency),
	}
	err = createOrdered(page.ID, &medicine, "medicine")
	if err != nil {
		return nil, err
	}

	return &medicine, nil
}

func (page *Page) UpdateMedicine(id uint, input MedicineInput) (*Medicine, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	err = updateOwned(&Medicine{}, page.ID, id, input.fields(), "medicine")
	if err != nil {
		return nil, err
	}

	medicine := Medicine{}
	err = findOwned(&medicine, page.ID, id, "medicine")
	if err != nil {
		return nil, err
	}

	return &medicine, nil
}

func (page *Page) DeleteMedicine(id uint) error {
	return deleteOwned(&Medicine{}, page.ID, id, "medicine")
}

func (page *Page) ReorderMedicines(ids []uint) error {
	return reorderOwned(&Medicine{}, page.ID, ids, "medicine")
}
