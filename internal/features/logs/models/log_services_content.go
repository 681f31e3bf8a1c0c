package logs_models

// LogServicesContent is a free-text payload attached to an invocation.
// ContentNo orders the entries of one header.
type LogServicesContent struct {
	LogServicesContentID int64  `json:"logServicesContentId" gorm:"column:log_services_content_id;primaryKey;autoIncrement"`
	LogID                int64  `json:"logId"                gorm:"column:log_id;index;not null"`
	ContentNo            int    `json:"contentNo"            gorm:"column:content_no"`
	ContentText          string `json:"contentText"          gorm:"column:content_text"`
}

func (LogServicesContent) TableName() string {
	return "log_services_content"
}

func (c LogServicesContent) GetID() int64 {
	return c.LogServicesContentID
}

func (c *LogServicesContent) SetID(id int64) {
	c.LogServicesContentID = id
}

func (LogServicesContent) IsMutable() bool {
	return true
}
