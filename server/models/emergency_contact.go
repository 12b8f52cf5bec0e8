package models

import "strings"

// EmergencyContact is listed in creation order; it has no display order.
type EmergencyContact struct {
	BaseModel
	PageID   uint   `json:"pageId" gorm:"not null;index"`
	Name     string `json:"name" gorm:"not null"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Relation string `json:"relation"`
}

// EmergencyContactInput replaces the whole contact on update
type EmergencyContactInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Relation string `json:"relation" validate:"max=100"`
}

func (input *EmergencyContactInput) normalize() error {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.Relation = strings.TrimSpace(input.Relation)

	return validateStruct(input)
}

func (page *Page) ListEmergencyContacts() ([]EmergencyContact, error) {
	contacts := []EmergencyContact{}
	err := db.Where("page_id = ?", page.ID).Order("created_at asc, id asc").Find(&contacts).Error
	if err != nil {
		return nil, translateError(err, "emergency contact")
	}

	return contacts, nil
}

func (page *Page) AddEmergencyContact(input EmergencyContactInput) (*EmergencyContact, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	contact := EmergencyContact{
		PageID:   page.ID,
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Relation: input.Relation,
	}
	err = db.Create(&contact).Error
	if err != nil {
		return nil, translateError(err, "emergency contact")
	}

	return &contact, nil
}

func (page *Page) UpdateEmergencyContact(id uint, input EmergencyContactInput) (*EmergencyContact, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	err = updateOwned(&EmergencyContact{}, page.ID, id, map[string]interface{}{
		"name":     input.Name,
		"phone":    input.Phone,
		"email":    input.Email,
		"relation": input.Relation,
	}, "emergency contact")
	if err != nil {
		return nil, err
	}

	contact := EmergencyContact{}
	err = findOwned(&contact, page.ID, id, "emergency contact")
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (page *Page) DeleteEmergencyContact(id uint) error {
	return deleteOwned(&EmergencyContact{}, page.ID, id, "emergency contact")
}
