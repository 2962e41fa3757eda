package services

import (
	"context"
	"fmt"
	"strings"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/dto"
	"patient-context/internal/domain/entities"
	"patient-context/internal/domain/interfaces/repository"
	"patient-context/internal/infra/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PatientService is the patient directory.
type PatientService struct {
	Repository repository.PatientRepository
	Logger     *logger.Logger
	NewID      func() string
}

func NewPatientService(repo repository.PatientRepository, logger *logger.Logger) *PatientService {
	return &PatientService{Repository: repo, Logger: logger, NewID: uuid.NewString}
}

// CreatePatient stores a new patient with empty conversations and chat
// history and returns its freshly allocated id.
func (ps *PatientService) CreatePatient(ctx context.Context, input dto.CreatePatientRequest) (string, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" {
		return "", apperr.Validation("first_name is required")
	}
	if lastName == "" {
		return "", apperr.Validation("last_name is required")
	}

	patient := entities.Patient{
		ID:            ps.NewID(),
		FirstName:     firstName,
		LastName:      lastName,
		DOB:           strings.TrimSpace(input.DOB),
		Gender:        input.Gender,
		Contact:       input.Contact,
		Conversations: []entities.Conversation{},
		ChatHistory:   []entities.ChatMessage{},
	}

	if err := ps.Repository.Create(ctx, patient); err != nil {
		ps.Logger.Error(fmt.Sprintf("Failed to create patient: %v", err))
		return "", err
	}

	ps.Logger.Info("Patient created", logrus.Fields{"patient_id": patient.ID})
	return patient.ID, nil
}

func (ps *PatientService) FindPatient(ctx context.Context, patientID string) (entities.Patient, error) {
	patient, err := ps.Repository.FindByID(ctx, patientID)
	if err != nil {
		return entities.Patient{}, storeError(patientID, err)
	}
	return patient, nil
}
