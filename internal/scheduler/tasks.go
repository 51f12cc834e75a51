package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskGenerateAgreement = "rentals.agreement.generate"

type GenerateAgreementPayload struct {
	RentalID string `json:"rentalId"`
}

func NewGenerateAgreementTask(payload GenerateAgreementPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGenerateAgreement, data), nil
}

func ParseGenerateAgreementPayload(task *asynq.Task) (GenerateAgreementPayload, error) {
	var payload GenerateAgreementPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return GenerateAgreementPayload{}, err
	}
	return payload, nil
}
