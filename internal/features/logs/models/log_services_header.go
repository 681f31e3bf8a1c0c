package logs_models

import (
	"time"

	"github.com/google/uuid"
)

// LogServicesHeader is one row per service invocation. It owns its
// microservice and content children; deleting it cascades to them.
type LogServicesHeader struct {
	LogID            int64      `json:"logId"            gorm:"column:log_id;primaryKey;autoIncrement"`
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

	// Loaded only by the "with details" queries.
	Microservices []LogMicroservice    `json:"microservices,omitempty" gorm:"foreignKey:LogID;references:LogID;constraint:OnDelete:CASCADE"`
	Contents      []LogServicesContent `json:"contents,omitempty"      gorm:"foreignKey:LogID;references:LogID;constraint:OnDelete:CASCADE"`
}

func (LogServicesHeader) TableName() string {
	return "log_services_header"
}

func (h LogServicesHeader) GetID() int64 {
	return h.LogID
}

func (h *LogServicesHeader) SetID(id int64) {
	h.LogID = id
}

func (LogServicesHeader) IsMutable() bool {
	return true
}

// ToHistorical copies the header and its loaded children into their archive
// shape. The header keeps its identifier; children get new ones on insert.
func (h *LogServicesHeader) ToHistorical() *LogServicesHeaderHistorico {
	historical := &LogServicesHeaderHistorico{
		LogID:            h.LogID,
		DateEntry:        h.DateEntry,
		DateExit:         h.DateExit,
		State:            h.State,
		MethodURL:        h.MethodURL,
		MethodName:       h.MethodName,
		OriginNode:       h.OriginNode,
		OriginIP:         h.OriginIP,
		OriginPort:       h.OriginPort,
		HttpMethod:       h.HttpMethod,
		MicroserviceName: h.MicroserviceName,
		RequestDuration:  h.RequestDuration,
		TransactionID:    h.TransactionID,
		UserID:           h.UserID,
		SessionID:        h.SessionID,
		RequestID:        h.RequestID,
		ErrorCode:        h.ErrorCode,
		ErrorDescription: h.ErrorDescription,
	}

	for _, microservice := range h.Microservices {
		historical.Microservices = append(historical.Microservices, LogMicroserviceHistorico{
			LogID:   h.LogID,
			LogDate: microservice.LogDate,
			LogText: microservice.LogText,
		})
	}

	for _, content := range h.Contents {
		historical.Contents = append(historical.Contents, LogServicesContentHistorico{
			LogID:       h.LogID,
			ContentNo:   content.ContentNo,
			ContentText: content.ContentText,
		})
	}

	return historical
}
