package models

import "gorm.io/gorm"

// APIRequestLog records a single handled API request for auditing.
type APIRequestLog struct {
	gorm.Model
	APIClientID *uint  `json:"apiClientId" gorm:"column:api_client_id"`
	UserID      *uint  `json:"userId" gorm:"column:user_id"`
	Method      string `json:"method" gorm:"column:method;not null"`
	Path        string `json:"path" gorm:"column:path;not null"`
	StatusCode  int    `json:"statusCode" gorm:"column:status_code"`
	DurationMs  int64  `json:"durationMs" gorm:"column:duration_ms"`
	ClientIP    string `json:"clientIp" gorm:"column:client_ip"`
}

// TableName specifies the table name
func (APIRequestLog) TableName() string {
	return "api_request_logs"
}
