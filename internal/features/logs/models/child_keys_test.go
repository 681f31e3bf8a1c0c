package logs_models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AssignedChildIDs_ReturnsOnlyNonZeroIdentifiers(t *testing.T) {
	header := &LogServicesHeader{
		Microservices: []LogMicroservice{{LogMicroserviceID: 3}, {}},
		Contents:      []LogServicesContent{{}, {LogServicesContentID: 5}},
	}

	assert.Equal(t, []int64{3, 5}, header.AssignedChildIDs())
	assert.Empty(t, (&LogServicesHeader{Microservices: []LogMicroservice{{}}}).AssignedChildIDs())
}

func Test_SnapshotChildKeys_WhenKeysChanged_RestoresOriginalValues(t *testing.T) {
	header := &LogServicesHeader{
		Microservices: []LogMicroservice{{LogText: "a"}},
		Contents:      []LogServicesContent{{ContentNo: 1}, {ContentNo: 2, LogID: 4}},
	}

	restore := header.SnapshotChildKeys()

	header.Microservices[0].LogMicroserviceID = 11
	header.Microservices[0].LogID = 99
	header.Contents[0].LogServicesContentID = 12
	header.Contents[1].LogServicesContentID = 13
	header.Contents[1].LogID = 99

	restore()

	assert.Equal(t, int64(0), header.Microservices[0].LogMicroserviceID)
	assert.Equal(t, int64(0), header.Microservices[0].LogID)
	assert.Equal(t, int64(0), header.Contents[0].LogServicesContentID)
	assert.Equal(t, int64(0), header.Contents[1].LogServicesContentID)
	assert.Equal(t, int64(4), header.Contents[1].LogID)
}

func Test_SnapshotChildKeys_OnHistoricalHeader_RestoresOriginalValues(t *testing.T) {
	historical := &LogServicesHeaderHistorico{
		LogID:         8,
		Microservices: []LogMicroserviceHistorico{{LogID: 8}},
		Contents:      []LogServicesContentHistorico{{LogID: 8}},
	}

	restore := historical.SnapshotChildKeys()
	historical.Microservices[0].LogMicroserviceID = 21
	historical.Contents[0].LogServicesContentID = 22

	restore()

	assert.Equal(t, int64(0), historical.Microservices[0].LogMicroserviceID)
	assert.Equal(t, int64(8), historical.Microservices[0].LogID)
	assert.Equal(t, int64(0), historical.Contents[0].LogServicesContentID)
	assert.Empty(t, historical.AssignedChildIDs())
}
