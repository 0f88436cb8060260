package models

import (
	"io"
	"time"
)

type EncounterStatus string

const (
	EncounterPending    EncounterStatus = "pending"
	EncounterProcessing EncounterStatus = "processing"
	EncounterCompleted  EncounterStatus = "completed"
	EncounterFailed     EncounterStatus = "failed"
)

func (s EncounterStatus) Valid() bool {
	switch s {
	case EncounterPending, EncounterProcessing, EncounterCompleted, EncounterFailed:
		return true
	}
	return false
}

type Encounter struct {
	ID             int64           `json:"id"`
	Patient        int64           `json:"patient"`
	PatientName    string          `json:"patient_name,omitempty"`
	EncounterDate  string          `json:"encounter_date"`
	AudioFile      string          `json:"audio_file,omitempty"`
	Transcription  string          `json:"transcription,omitempty"`
	SOAPNote       string          `json:"soap_note,omitempty"`
	ChiefComplaint string          `json:"chief_complaint,omitempty"`
	Status         EncounterStatus `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (e Encounter) Key() int64 { return e.ID }

func (e Encounter) Validate() error {
	if err := validateID("encounter", e.ID); err != nil {
		return err
	}
	if !e.Status.Valid() {
		return invalid("encounter %d has unknown status %q", e.ID, e.Status)
	}
	return nil
}

// NewEncounter is the multipart body of POST /encounters/.
type NewEncounter struct {
	PatientID      int64
	ChiefComplaint string
	Notes          string
	AudioFileName  string
	Audio          io.Reader
}

type EncounterPatch struct {
	ChiefComplaint *string          `json:"chief_complaint,omitempty"`
	EncounterDate  *string          `json:"encounter_date,omitempty"`
	Transcription  *string          `json:"transcription,omitempty"`
	SOAPNote       *string          `json:"soap_note,omitempty"`
	Status         *EncounterStatus `json:"status,omitempty"`
}

type EncounterQuery struct {
	Page     int
	PageSize int
	Search   string
}

type Transcription struct {
	Transcription string `json:"transcription"`
}

// DocumentFormat is the SOAP note download format.
type DocumentFormat string

const (
	DocumentPDF  DocumentFormat = "pdf"
	DocumentDOCX DocumentFormat = "docx"
)

func (f DocumentFormat) Valid() bool {
	return f == DocumentPDF || f == DocumentDOCX
}
