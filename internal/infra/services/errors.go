package services

import (
	"errors"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/interfaces/repository"
)

// storeError translates repository sentinels into core error kinds.
func storeError(patientID string, err error) error {
	if errors.Is(err, repository.ErrPatientNotFound) {
		return apperr.PatientNotFound(patientID)
	}
	return err
}
