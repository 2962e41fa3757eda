package Iservices

import (
	"context"

	"patient-context/internal/domain/dto"
	"patient-context/internal/domain/entities"
)

type IPatientService interface {
	CreatePatient(ctx context.Context, input dto.CreatePatientRequest) (string, error)
	FindPatient(ctx context.Context, patientID string) (entities.Patient, error)
}
