package Iservices

import "context"

type IContextService interface {
	ChatWithDoctor(ctx context.Context, patientID, doctorMessage string) (string, error)
}
