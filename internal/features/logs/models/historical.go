package logs_models

import (
	"time"

	"github.com/google/uuid"
)

// Historical mirrors hold rows moved out of the active tables. They are
// inserted and read, never updated, so they do not implement IsMutable.

type LogServicesHeaderHistorico struct {
	LogID            int64      `json:"logId"            gorm:"column:log_id;primaryKey;autoIncrement:false"`
	DateEntry        time.Time  `json:"dateEntry"        gorm:"column:date_entry;index;not null"`
	DateExit         *time.Time `json:"dateExit"         gorm:"column:date_exit"`
	State            LogState   `json:"state"            gorm:"column:state;index;not null"`
	MethodURL        string     `json:"methodUrl"        gorm:"column:method_url;not null"`
	MethodName       *string    `json:"methodName"       gorm:"column:method_name"`
	OriginNode       *string    `json:"originNode"       gorm:"column:origin_node"`
	OriginIP         *string    `json:"originIp"         gorm:"column:origin_ip"`
	OriginPort       *int       `json:"originPort"       gorm:"column:origin_port"`
	HttpMethod       *string    `json:"httpMethod"       gorm:"column:http_method"`
	MicroserviceName *string    `json:"microserviceName" gorm:"column:microservice_name;index"`
	RequestDuration  *int64     `json:"requestDuration"  gorm:"column:request_duration"`
	TransactionID    *string    `json:"transactionId"    gorm:"column:transaction_id;index"`
	UserID           *string    `json:"userId"           gorm:"column:user_id;index"`
	SessionID        *string    `json:"sessionId"        gorm:"column:session_id"`
	RequestID        *uuid.UUID `json:"requestId"        gorm:"column:request_id"`
	ErrorCode        *string    `json:"errorCode"        gorm:"column:error_code"`
	ErrorDescription *string    `json:"errorDescription" gorm:"column:error_description"`

	Microservices []LogMicroserviceHistorico    `json:"microservices,omitempty" gorm:"foreignKey:LogID;references:LogID;constraint:OnDelete:CASCADE"`
	Contents      []LogServicesContentHistorico `json:"contents,omitempty"      gorm:"foreignKey:LogID;references:LogID;constraint:OnDelete:CASCADE"`
}

func (LogServicesHeaderHistorico) TableName() string {
	return "log_services_header_historico"
}

func (h LogServicesHeaderHistorico) GetID() int64 {
	return h.LogID
}

func (h *LogServicesHeaderHistorico) SetID(id int64) {
	h.LogID = id
}

type LogMicroserviceHistorico struct {
	LogMicroserviceID int64     `json:"logMicroserviceId" gorm:"column:log_microservice_id;primaryKey;autoIncrement"`
	LogID             int64     `json:"logId"             gorm:"column:log_id;index;not null"`
	LogDate           time.Time `json:"logDate"           gorm:"column:log_date"`
	LogText           string    `json:"logText"           gorm:"column:log_text"`
}

func (LogMicroserviceHistorico) TableName() string {
	return "log_microservice_historico"
}

func (m LogMicroserviceHistorico) GetID() int64 {
	return m.LogMicroserviceID
}

func (m *LogMicroserviceHistorico) SetID(id int64) {
	m.LogMicroserviceID = id
}

type LogServicesContentHistorico struct {
	LogServicesContentID int64  `json:"logServicesContentId" gorm:"column:log_services_content_id;primaryKey;autoIncrement"`
	LogID                int64  `json:"logId"                gorm:"column:log_id;index;not null"`
	ContentNo            int    `json:"contentNo"            gorm:"column:content_no"`
	ContentText          string `json:"contentText"          gorm:"column:content_text"`
}

func (LogServicesContentHistorico) TableName() string {
	return "log_services_content_historico"
}

func (c LogServicesContentHistorico) GetID() int64 {
	return c.LogServicesContentID
}

func (c *LogServicesContentHistorico) SetID(id int64) {
	c.LogServicesContentID = id
}
