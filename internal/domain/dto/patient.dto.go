package dto

type CreatePatientRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	DOB       string  `json:"dob"`
	Gender    *string `json:"gender,omitempty"`
	Contact   *string `json:"contact,omitempty"`
}

type CreatePatientResponse struct {
	PatientID string `json:"patient_id"`
}
