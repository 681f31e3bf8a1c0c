package logs_dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	logs_models "servicelogs/internal/features/logs/models"
)

// LogFilter narrows header queries. Every non-nil field is a constraint and
// all constraints are combined with AND.
type LogFilter struct {
	StartDate        *time.Time            `json:"startDate,omitempty"`
	EndDate          *time.Time            `json:"endDate,omitempty"`
	State            *logs_models.LogState `json:"state,omitempty"`
	MicroserviceName *string               `json:"microserviceName,omitempty"`
	UserID           *string               `json:"userId,omitempty"`
	TransactionID    *string               `json:"transactionId,omitempty"`
}

func (f *LogFilter) IsEmpty() bool {
	return f == nil ||
		(f.StartDate == nil && f.EndDate == nil && f.State == nil &&
			isBlank(f.MicroserviceName) && isBlank(f.UserID) && isBlank(f.TransactionID))
}

func (f *LogFilter) Validate() error {
	if f == nil {
		return nil
	}

	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return errors.New("startDate must not be after endDate")
	}

	if f.State != nil && !f.State.IsValid() {
		return fmt.Errorf("invalid state: %d", int(*f.State))
	}

	return nil
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}
