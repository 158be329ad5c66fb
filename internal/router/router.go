package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shiftdesk-dev/shiftdesk/internal/config"
	"github.com/shiftdesk-dev/shiftdesk/internal/handlers"
	"github.com/shiftdesk-dev/shiftdesk/internal/middleware"
)

func NewRouter(cfg *config.Config, users *handlers.UserHandler, schedules *handlers.ScheduleHandler, board *handlers.Board) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	guard := middleware.SessionGuard([]byte(cfg.Secret))

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.HealthCheck)

	user := r.Group("/user")
	{
		user.POST("/signup", users.Signup)
		user.GET("/verify-email/:token", users.VerifyEmail)
		user.POST("/login", users.Login)
		user.PUT("/forgotpassword", users.ForgotPassword)
		user.PUT("/forgotpassword/:resetToken", users.ResetPassword)
		user.PUT("/emailupdate/:userId", guard, users.UpdateEmail)
		user.POST("/logout", users.Logout)
	}

	schedule := r.Group("/schedule")
	{
		schedule.POST("/", schedules.Create)
		schedule.GET("/department/:department", schedules.FindByDepartment)
		schedule.GET("/user/:username", schedules.FindByUser)
		schedule.GET("/board/:department", guard, board.Serve)
	}

	return r
}
