package models

import (
	"strings"
	"time"

	"github.com/medilink/medilink/utils"
)

const (
	DEFAULT_DIAGNOSIS_SEVERITY = "moderate"
	CALENDAR_DATE_LAYOUT       = "2006-01-02"
)

var diagnosisSeverities = []string{"mild", "moderate", "severe", "critical"}

type Diagnosis struct {
	PageItem
	Name          string `json:"name" gorm:"not null"`
	Severity      string `json:"severity" gorm:"not null;default:moderate"`
	DiagnosisDate string `json:"diagnosisDate"`
	Description   string `json:"description"`
}

// DiagnosisInput is used for both create and update. Optional fields left out
// of an update keep their stored value.
type DiagnosisInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Severity      *string `json:"severity"`
	DiagnosisDate *string `json:"diagnosisDate" validate:"omitempty,calendar_date"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
}

func (input *DiagnosisInput) normalize() error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = trimPtr(input.Description)
	input.DiagnosisDate = trimPtr(input.DiagnosisDate)

	if input.Severity != nil {
		severity := utils.ValueOrDefault(*input.Severity, diagnosisSeverities, DEFAULT_DIAGNOSIS_SEVERITY)
		input.Severity = &severity
	}

	return validateStruct(input)
}

func (input *DiagnosisInput) fields() map[string]interface{} {
	data := map[string]interface{}{"name": input.Name}
	setIfPresent(data, "severity", input.Severity)
	setIfPresent(data, "diagnosis_date", input.DiagnosisDate)
	setIfPresent(data, "description", input.Description)

	return data
}

func parseCalendarDate(value string) (time.Time, error) {
	return time.Parse(CALENDAR_DATE_LAYOUT, value)
}

func (page *Page) ListDiagnoses() ([]Diagnosis, error) {
	return listOrdered[Diagnosis](page.ID, "diagnosis")
}

func (page *Page) AddDiagnosis(input DiagnosisInput) (*Diagnosis, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	diagnosis := Diagnosis{
		Name:          input.Name,
		Severity:      DEFAULT_DIAGNOSIS_SEVERITY,
		DiagnosisDate: stringOrEmpty(input.DiagnosisDate),
		Description:   stringOrEmpty(input.Description),
	}
	if input.Severity != nil {
		diagnosis.Severity = *input.Severity
	}

	err = createOrdered(page.ID, &diagnosis, "diagnosis")
	if err != nil {
		return nil, err
	}

	return &diagnosis, nil
}

func (page *Page) UpdateDiagnosis(id uint, input DiagnosisInput) (*Diagnosis, error) {
	err := input.normalize()
	if err != nil {
		return nil, err
	}

	err = updateOwned(&Diagnosis{}, page.ID, id, input.fields(), "diagnosis")
	if err != nil {
		return nil, err
	}

	diagnosis := Diagnosis{}
	err = findOwned(&diagnosis, page.ID, id, "diagnosis")
	if err != nil {
		return nil, err
	}

	return &diagnosis, nil
}

func (page *Page) DeleteDiagnosis(id uint) error {
	return deleteOwned(&Diagnosis{}, page.ID, id, "diagnosis")
}

func (page *Page) ReorderDiagnoses(ids []uint) error {
	return reorderOwned(&Diagnosis{}, page.ID, ids, "diagnosis")
}
