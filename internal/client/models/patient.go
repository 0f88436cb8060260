package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Patient struct {
	ID                  int64     `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	DateOfBirth         string    `json:"date_of_birth"`
	Gender              Gender    `json:"gender"`
	Email               string    `json:"email,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	Address             string    `json:"address,omitempty"`
	MedicalRecordNumber string    `json:"medical_record_number,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (p Patient) Key() int64 { return p.ID }

func (p Patient) FullName() string { return p.FirstName + " " + p.LastName }

func (p Patient) Validate() error {
	if err := validateID("patient", p.ID); err != nil {
		return err
	}
	if p.Gender != "" && !p.Gender.Valid() {
		return invalid("patient %d has unknown gender %q", p.ID, p.Gender)
	}
	return nil
}

// PatientInput is the body of POST /patients/.
type PatientInput struct {
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	DateOfBirth         string `json:"date_of_birth"`
	Gender              Gender `json:"gender"`
	Email               string `json:"email,omitempty"`
	Phone               string `json:"phone,omitempty"`
	Address             string `json:"address,omitempty"`
	MedicalRecordNumber string `json:"medical_record_number,omitempty"`
}

// PatientPatch is the body of PATCH /patients/{id}/; nil fields are left alone.
type PatientPatch struct {
	FirstName           *string `json:"first_name,omitempty"`
	LastName            *string `json:"last_name,omitempty"`
	DateOfBirth         *string `json:"date_of_birth,omitempty"`
	Gender              *Gender `json:"gender,omitempty"`
	Email               *string `json:"email,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Address             *string `json:"address,omitempty"`
	MedicalRecordNumber *string `json:"medical_record_number,omitempty"`
}
