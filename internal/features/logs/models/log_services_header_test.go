package logs_models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_ToHistorical_WithChildren_CopiesFieldsAndResetsChildIDs(t *testing.T) {
	requestID := uuid.New()
	service := "billing"
	entry := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	header := &LogServicesHeader{
		LogID:            42,
		DateEntry:        entry,
		State:            LogStateFailed,
		MethodURL:        "/billing/charge",
		MicroserviceName: &service,
		RequestID:        &requestID,
		Microservices: []LogMicroservice{
			{LogMicroserviceID: 7, LogID: 42, LogDate: entry, LogText: "charge rejected"},
		},
		Contents: []LogServicesContent{
			{LogServicesContentID: 9, LogID: 42, ContentNo: 1, ContentText: "{}"},
		},
	}

	historical := header.ToHistorical()

	assert.Equal(t, int64(42), historical.LogID)
	assert.Equal(t, entry, historical.DateEntry)
	assert.Equal(t, LogStateFailed, historical.State)
	assert.Equal(t, "/billing/charge", historical.MethodURL)
	assert.Equal(t, &service, historical.MicroserviceName)
	assert.Equal(t, &requestID, historical.RequestID)

	assert.Len(t, historical.Microservices, 1)
	assert.Equal(t, int64(0), historical.Microservices[0].LogMicroserviceID)
	assert.Equal(t, int64(42), historical.Microservices[0].LogID)
	assert.Equal(t, "charge rejected", historical.Microservices[0].LogText)

	assert.Len(t, historical.Contents, 1)
	assert.Equal(t, int64(0), historical.Contents[0].LogServicesContentID)
	assert.Equal(t, 1, historical.Contents[0].ContentNo)
}

func Test_Entities_IdentifierAccessors_ReadAndWritePrimaryKey(t *testing.T) {
	header := &LogServicesHeader{}
	header.SetID(5)
	assert.Equal(t, int64(5), header.GetID())

	content := &LogServicesContent{}
	content.SetID(6)
	assert.Equal(t, int64(6), content.GetID())

	historical := &LogServicesHeaderHistorico{}
	historical.SetID(7)
	assert.Equal(t, int64(7), historical.GetID())
}
