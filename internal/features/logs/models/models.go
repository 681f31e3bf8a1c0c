package logs_models

// AllModels lists every mapped entity, active tables first.
func AllModels() []any {
	return []any{
		&LogServicesHeader{},
		&LogMicroservice{},
		&LogServicesContent{},
		&LogServicesHeaderHistorico{},
		&LogMicroserviceHistorico{},
		&LogServicesContentHistorico{},
	}
}
