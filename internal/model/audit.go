package model

import "time"

// AuditLog is one request-level audit record
type AuditLog struct {
	ID        string `gorm:"primaryKey" json:"id"`
	UserID    string `gorm:"column:user_id;index" json:"user_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`

	RequestBody  string `json:"request_body"` // redacted
	StatusCode   int    `json:"status_code"`
	ResponseBody string `json:"response_body"`
	LatencyMs    int64  `json:"latency_ms"`

	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
