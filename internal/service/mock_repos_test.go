package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/kbc0/TA-Management-System-sub001/internal/model"
	pkgerrors "github.com/kbc0/TA-Management-System-sub001/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("uid-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStaffNumber(_ context.Context, staffNumber string) (*model.User, error) {
	for _, u := range m.users {
		if u.StaffNumber == staffNumber {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListActiveByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role && u.IsActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = "course-" + course.Code
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) List(_ context.Context, offset, limit int) ([]model.Course, int64, error) {
	all := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	tasks map[string]*model.TaskAssignment
	// lockBusy 模拟行锁被占用（FOR UPDATE NOWAIT 命中 55P03）
	lockBusy bool
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{tasks: make(map[string]*model.TaskAssignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, task *model.TaskAssignment) error {
	if task.TaskAssignmentID == "" {
		task.TaskAssignmentID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	}
	if task.Version == 0 {
		task.Version = 1
	}
	m.tasks[task.TaskAssignmentID] = task
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.TaskAssignment, error) {
	if t, ok := m.tasks[id]; ok && t.IsActive {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetOwnedForUpdate(_ context.Context, id, ownerID string) (*model.TaskAssignment, error) {
	if m.lockBusy {
		return nil, pkgerrors.ErrLockUnavailable
	}
	t, ok := m.tasks[id]
	if !ok || !t.IsActive || t.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockAssignmentRepo) GetOwnedByCourseAndDateForUpdate(_ context.Context, ownerID, courseID string, date time.Time) (*model.TaskAssignment, error) {
	if m.lockBusy {
		return nil, pkgerrors.ErrLockUnavailable
	}
	for _, t := range m.tasks {
		if t.IsActive && t.OwnerID == ownerID && t.CourseID == courseID &&
			t.DutyType == "proctoring" && t.DueDate.Equal(date) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) UpdateOwner(_ context.Context, task *model.TaskAssignment, newOwnerID string, updatedBy string) error {
	stored, ok := m.tasks[task.TaskAssignmentID]
	if !ok || stored.Version != task.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.OwnerID = newOwnerID
	stored.UpdatedBy = &updatedBy
	stored.Version++
	task.OwnerID = newOwnerID
	task.Version = stored.Version
	return nil
}

func (m *mockAssignmentRepo) ListByOwner(_ context.Context, ownerID string) ([]model.TaskAssignment, error) {
	var result []model.TaskAssignment
	for _, t := range m.tasks {
		if t.IsActive && t.OwnerID == ownerID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].DueDate.Before(result[j].DueDate)
		}
		return result[i].TaskAssignmentID < result[j].TaskAssignmentID
	})
	return result, nil
}

func (m *mockAssignmentRepo) ListByOwnerDueBetween(_ context.Context, ownerID string, start, end time.Time) ([]model.TaskAssignment, error) {
	var result []model.TaskAssignment
	for _, t := range m.tasks {
		if t.IsActive && t.OwnerID == ownerID &&
			!t.DueDate.Before(start) && !t.DueDate.After(end) {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].DueDate.Before(result[j].DueDate)
		}
		return result[i].TaskAssignmentID < result[j].TaskAssignmentID
	})
	return result, nil
}

// ── Mock ExamRepository ──
// ListProctoredBetween 依赖任务数据做「课程 + 日期」关联，持有任务 Mock 的引用

type mockExamRepo struct {
	exams      map[string]*model.Exam
	assignRepo *mockAssignmentRepo
}

func newMockExamRepo(assignRepo *mockAssignmentRepo) *mockExamRepo {
	return &mockExamRepo{exams: make(map[string]*model.Exam), assignRepo: assignRepo}
}

func (m *mockExamRepo) Create(_ context.Context, exam *model.Exam) error {
	if exam.ExamID == "" {
		exam.ExamID = fmt.Sprintf("exam-%d", len(m.exams)+1)
	}
	m.exams[exam.ExamID] = exam
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id string) (*model.Exam, error) {
	if e, ok := m.exams[id]; ok && e.IsActive {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExamRepo) ListProctoredBetween(_ context.Context, userID string, start, end time.Time) ([]model.Exam, error) {
	var result []model.Exam
	for _, e := range m.exams {
		if !e.IsActive || e.ExamDate.Before(start) || e.ExamDate.After(end) {
			continue
		}
		for _, t := range m.assignRepo.tasks {
			if t.IsActive && t.OwnerID == userID && t.CourseID == e.CourseID &&
				t.DutyType == "proctoring" && t.DueDate.Equal(e.ExamDate) {
				result = append(result, *e)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ExamDate.Equal(result[j].ExamDate) {
			return result[i].ExamDate.Before(result[j].ExamDate)
		}
		return result[i].ExamID < result[j].ExamID
	})
	return result, nil
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	leaves map[string]*model.LeaveRequest
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.LeaveRequest)}
}

func (m *mockLeaveRepo) Create(_ context.Context, leave *model.LeaveRequest) error {
	if leave.LeaveRequestID == "" {
		leave.LeaveRequestID = fmt.Sprintf("leave-%d", len(m.leaves)+1)
	}
	if leave.Version == 0 {
		leave.Version = 1
	}
	leave.CreatedAt = time.Now()
	m.leaves[leave.LeaveRequestID] = leave
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	if l, ok := m.leaves[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) UpdateDecision(_ context.Context, leave *model.LeaveRequest) error {
	stored, ok := m.leaves[leave.LeaveRequestID]
	if !ok || stored.Version != leave.Version || stored.Status != "pending" {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = leave.Status
	stored.ReviewerID = leave.ReviewerID
	stored.ReviewerNotes = leave.ReviewerNotes
	stored.ReviewedAt = leave.ReviewedAt
	stored.UpdatedBy = leave.UpdatedBy
	stored.Version++
	leave.Version = stored.Version
	return nil
}

func (m *mockLeaveRepo) DeletePending(_ context.Context, id string) (int64, error) {
	l, ok := m.leaves[id]
	if !ok || l.Status != "pending" {
		return 0, nil
	}
	delete(m.leaves, id)
	return 1, nil
}

func (m *mockLeaveRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var all []model.LeaveRequest
	for _, l := range m.leaves {
		if l.UserID == userID {
			all = append(all, *l)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginateLeaves(all, offset, limit)
}

func (m *mockLeaveRepo) ListPending(_ context.Context, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var all []model.LeaveRequest
	for _, l := range m.leaves {
		if l.Status == "pending" {
			all = append(all, *l)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginateLeaves(all, offset, limit)
}

func paginateLeaves(all []model.LeaveRequest, offset, limit int) ([]model.LeaveRequest, int64, error) {
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockLeaveRepo) ListUserIDsOnApprovedLeave(_ context.Context, date time.Time) ([]string, error) {
	seen := make(map[string]struct{})
	var result []string
	for _, l := range m.leaves {
		if l.Status != "approved" || date.Before(l.StartDate) || date.After(l.EndDate) {
			continue
		}
		if _, ok := seen[l.UserID]; ok {
			continue
		}
		seen[l.UserID] = struct{}{}
		result = append(result, l.UserID)
	}
	return result, nil
}

func (m *mockLeaveRepo) HasApprovedLeaveCovering(_ context.Context, userID string, date time.Time) (bool, error) {
	for _, l := range m.leaves {
		if l.UserID == userID && l.Status == "approved" &&
			!date.Before(l.StartDate) && !date.After(l.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock SwapRequestRepository ──

type mockSwapRepo struct {
	swaps map[string]*model.SwapRequest
	// lockBusy 模拟申请行锁被占用
	lockBusy bool
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRepo) Create(_ context.Context, swap *model.SwapRequest) error {
	if swap.SwapRequestID == "" {
		swap.SwapRequestID = fmt.Sprintf("swap-%d", len(m.swaps)+1)
	}
	if swap.Version == 0 {
		swap.Version = 1
	}
	swap.CreatedAt = time.Now()
	m.swaps[swap.SwapRequestID] = swap
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	if s, ok := m.swaps[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) GetForUpdate(_ context.Context, id string) (*model.SwapRequest, error) {
	if m.lockBusy {
		return nil, pkgerrors.ErrLockUnavailable
	}
	if s, ok := m.swaps[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) UpdateDecision(_ context.Context, swap *model.SwapRequest) error {
	stored, ok := m.swaps[swap.SwapRequestID]
	if !ok || stored.Version != swap.Version || stored.Status != "pending" {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = swap.Status
	stored.ReviewerID = swap.ReviewerID
	stored.ReviewerNotes = swap.ReviewerNotes
	stored.ReviewedAt = swap.ReviewedAt
	stored.UpdatedBy = swap.UpdatedBy
	stored.Version++
	swap.Version = stored.Version
	return nil
}

func (m *mockSwapRepo) DeletePending(_ context.Context, id string, _ string) (int64, error) {
	s, ok := m.swaps[id]
	if !ok || s.Status != "pending" {
		return 0, nil
	}
	delete(m.swaps, id)
	return 1, nil
}

func (m *mockSwapRepo) ListByRequester(_ context.Context, requesterID string, offset, limit int) ([]model.SwapRequest, int64, error) {
	var all []model.SwapRequest
	for _, s := range m.swaps {
		if s.RequesterID == requesterID {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginateSwaps(all, offset, limit)
}

func (m *mockSwapRepo) ListForTarget(_ context.Context, targetID string, status string, offset, limit int) ([]model.SwapRequest, int64, error) {
	var all []model.SwapRequest
	for _, s := range m.swaps {
		if s.TargetID != targetID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginateSwaps(all, offset, limit)
}

func paginateSwaps(all []model.SwapRequest, offset, limit int) ([]model.SwapRequest, int64, error) {
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock SwapAuditLogRepository ──

type mockSwapAuditLogRepo struct {
	logs []model.SwapAuditLog
	// failCreate 模拟审计写入失败（业务结果不应受影响）
	failCreate bool
}

func newMockSwapAuditLogRepo() *mockSwapAuditLogRepo {
	return &mockSwapAuditLogRepo{}
}

func (m *mockSwapAuditLogRepo) Create(_ context.Context, log *model.SwapAuditLog) error {
	if m.failCreate {
		return fmt.Errorf("audit sink down")
	}
	if log.SwapAuditLogID == "" {
		log.SwapAuditLogID = fmt.Sprintf("audit-%d", len(m.logs)+1)
	}
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockSwapAuditLogRepo) ListBySwap(_ context.Context, swapRequestID string) ([]model.SwapAuditLog, error) {
	var result []model.SwapAuditLog
	for _, l := range m.logs {
		if l.SwapRequestID == swapRequestID {
			result = append(result, l)
		}
	}
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
