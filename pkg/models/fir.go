package models

import (
	"time"

	"github.com/google/uuid"
)

// FieldState tracks where a FieldValue is in its lifecycle.
type FieldState string

const (
	FieldPlaintext     FieldState = "plaintext"
	FieldCiphertext    FieldState = "ciphertext"
	FieldDecrypted     FieldState = "decrypted"
	FieldRedacted      FieldState = "redacted"
	FieldUndecryptable FieldState = "undecryptable"
)

// FieldInput is one submitted form field.
type FieldInput struct {
	Value     string `json:"value"`
	Anonymize bool   `json:"anonymize"`
}

// FieldValue is one named scalar of an FIR record.
type FieldValue struct {
	Name      string     `json:"name"            yaml:"name"`
	Title     string     `json:"title"           yaml:"title"`
	Section   int        `json:"section"         yaml:"section"`
	Value     string     `json:"value,omitempty" yaml:"value,omitempty"`
	State     FieldState `json:"state"           yaml:"state"`
	Anonymize bool       `json:"anonymize"       yaml:"anonymize"`
}

// FieldDefinition describes a field of the FIR form.
type FieldDefinition struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Section   int    `json:"section"`
	Anonymize bool   `json:"anonymize"`
}

// Record is a stored FIR. Fields flagged for anonymization only ever hold
// ciphertext here.
type Record struct {
	UUID      uuid.UUID             `json:"uuid"`
	CrimeNo   string                `json:"crime_no,omitempty"`
	Fields    map[string]FieldValue `json:"fields"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type CreateRecordRequest struct {
	Fields map[string]FieldInput `json:"fields" validate:"required,min=1"`
}

// FIRFields is the FIR form, in display order.
var FIRFields = []FieldDefinition{
	{Name: "district", Title: "District", Section: 1},
	{Name: "crime_no", Title: "Crime No", Section: 1},
	{Name: "fir_date", Title: "FIR Date", Section: 1},
	{Name: "circle_sub_division", Title: "Circle/Sub Division", Section: 1},
	{Name: "police_station", Title: "PS", Section: 1},
	{Name: "act_section", Title: "Act & Section", Section: 2},
	{Name: "information_received_at_ps", Title: "Information received at the PS", Section: 3},
	{Name: "information_received_type", Title: "Written/Oral", Section: 3},
	{Name: "information_received_from_time", Title: "From Time", Section: 3},
	{Name: "information_received_to_time", Title: "To Time", Section: 3},
	{Name: "information_received_from_date", Title: "From Date", Section: 3},
	{Name: "information_received_to_date", Title: "To Date", Section: 3},
	{Name: "occurrence_of_offence_day", Title: "Occurrence of Offence Day", Section: 3},
	{Name: "general_diary_reference_entry_no", Title: "General Diary reference Entry No.", Section: 3},
	{Name: "general_diary_reference_time", Title: "General Diary reference Time", Section: 3},
	{Name: "place_of_occurrence_address", Title: "Place of occurrence with full address", Section: 4, Anonymize: true},
	{Name: "place_of_occurrence_distance_from_ps", Title: "Distance from PS", Section: 4},
	{Name: "place_of_occurrence_village", Title: "Village", Section: 4},
	{Name: "place_of_occurrence_beat_name", Title: "Beat Name", Section: 4},
	{Name: "place_of_occurrence_district", Title: "District", Section: 4},
	{Name: "complainant_informant_name", Title: "Name", Section: 5, Anonymize: true},
	{Name: "complainant_informant_father_husband_name", Title: "Father's/Husband's Name", Section: 5, Anonymize: true},
	{Name: "complainant_informant_age", Title: "Age", Section: 5, Anonymize: true},
	{Name: "complainant_informant_occupation", Title: "Occupation", Section: 5, Anonymize: true},
	{Name: "complainant_informant_religion", Title: "Religion", Section: 5, Anonymize: true},
	{Name: "complainant_informant_caste", Title: "Caste", Section: 5, Anonymize: true},
	{Name: "complainant_informant_phone_no", Title: "Phone No.", Section: 5, Anonymize: true},
	{Name: "complainant_informant_nationality", Title: "Nationality", Section: 5, Anonymize: true},
	{Name: "complainant_informant_passport_no", Title: "Passport No.", Section: 5, Anonymize: true},
	{Name: "complainant_informant_passport_date_of_issue", Title: "Date of Issue", Section: 5, Anonymize: true},
	{Name: "complainant_informant_address", Title: "Address", Section: 5, Anonymize: true},
	{Name: "complainant_informant_sex", Title: "Sex", Section: 5, Anonymize: true},
	{Name: "complainant_informant_seen_occurrence", Title: "Whether complainant has seen the occurence or merely heard of it", Section: 5, Anonymize: true},
	{Name: "inquest_report_ud_case_no", Title: "Inquest Report/U.D. Case No. if any", Section: 9},
	{Name: "fir_contents", Title: "F.I.R Contents", Section: 10, Anonymize: true},
	{Name: "action_taken", Title: "Action Taken", Section: 11},
	{Name: "fir_dispatch_date_time", Title: "Date and time of dispatch to the Court", Section: 13},
	{Name: "fir_carrier_name", Title: "Name of PC/HC who carried the FIR to the Court", Section: 14, Anonymize: true},
}

var firFieldIndex = func() map[string]FieldDefinition {
	m := make(map[string]FieldDefinition, len(FIRFields))
	for _, f := range FIRFields {
		m[f.Name] = f
	}
	return m
}()

// LookupFIRField returns the definition of the named field.
func LookupFIRField(name string) (FieldDefinition, bool) {
	f, ok := firFieldIndex[name]
	return f, ok
}
