package logs_models

// AssignedChildIDs returns the identifiers loaded children already carry.
func (h *LogServicesHeader) AssignedChildIDs() []int64 {
	ids := make([]int64, 0)
	for _, microservice := range h.Microservices {
		if microservice.LogMicroserviceID != 0 {
			ids = append(ids, microservice.LogMicroserviceID)
		}
	}

	for _, content := range h.Contents {
		if content.LogServicesContentID != 0 {
			ids = append(ids, content.LogServicesContentID)
		}
	}

	return ids
}

// SnapshotChildKeys records the identifier and LogID of every loaded child
// and returns a function that puts them back.
func (h *LogServicesHeader) SnapshotChildKeys() func() {
	restoreMicroservices := snapshotKeys(h.Microservices, func(m *LogMicroservice) (*int64, *int64) {
		return &m.LogMicroserviceID, &m.LogID
	})
	restoreContents := snapshotKeys(h.Contents, func(c *LogServicesContent) (*int64, *int64) {
		return &c.LogServicesContentID, &c.LogID
	})

	return func() {
		restoreMicroservices()
		restoreContents()
	}
}

func (h *LogServicesHeaderHistorico) AssignedChildIDs() []int64 {
	ids := make([]int64, 0)
	for _, microservice := range h.Microservices {
		if microservice.LogMicroserviceID != 0 {
			ids = append(ids, microservice.LogMicroserviceID)
		}
	}

	for _, content := range h.Contents {
		if content.LogServicesContentID != 0 {
			ids = append(ids, content.LogServicesContentID)
		}
	}

	return ids
}

func (h *LogServicesHeaderHistorico) SnapshotChildKeys() func() {
	restoreMicroservices := snapshotKeys(h.Microservices, func(m *LogMicroserviceHistorico) (*int64, *int64) {
		return &m.LogMicroserviceID, &m.LogID
	})
	restoreContents := snapshotKeys(h.Contents, func(c *LogServicesContentHistorico) (*int64, *int64) {
		return &c.LogServicesContentID, &c.LogID
	})

	return func() {
		restoreMicroservices()
		restoreContents()
	}
}

// snapshotKeys works on the slice elements in place, which is where gorm
// writes keys while saving has-many associations.
func snapshotKeys[T any](rows []T, keys func(*T) (id *int64, logID *int64)) func() {
	saved := make([][2]int64, len(rows))
	for i := range rows {
		id, logID := keys(&rows[i])
		saved[i] = [2]int64{*id, *logID}
	}

	return func() {
		for i := range saved {
			if i >= len(rows) {
				return
			}

			id, logID := keys(&rows[i])
			*id, *logID = saved[i][0], saved[i][1]
		}
	}
}
