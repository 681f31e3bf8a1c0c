package logs_models

import "time"

// LogMicroservice is a free-text log line written by a microservice while
// handling the invocation identified by LogID.
type LogMicroservice struct {
	LogMicroserviceID int64     `json:"logMicroserviceId" gorm:"column:log_microservice_id;primaryKey;autoIncrement"`
	LogID             int64     `json:"logId"             gorm:"column:log_id;index;not null"`
	LogDate           time.Time `json:"logDate"           gorm:"column:log_date"`
	LogText           string    `json:"logText"           gorm:"column:log_text"`
}

func (LogMicroservice) TableName() string {
	return "log_microservice"
}

func (m LogMicroservice) GetID() int64 {
	return m.LogMicroserviceID
}

func (m *LogMicroservice) SetID(id int64) {
	m.LogMicroserviceID = id
}

func (LogMicroservice) IsMutable() bool {
	return true
}
