package router

import (
	"net/http"

	"github.com/dootling/dcs/internal/handler"
	"github.com/dootling/dcs/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部接口实现
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Profile    *handler.ProfileHandler
	Follow     *handler.FollowHandler
	Connection *handler.ConnectionHandler
	Home       *handler.HomeHandler
	Project    *handler.ProjectHandler
	Milestone  *handler.MilestoneHandler
	Task       *handler.TaskHandler
}

// Setup 初始化路由
func Setup(h Handlers, jwtSecret string) *gin.Engine {
	engine := gin.Default()
	engine.Use(corsMiddleware())

	engine.GET("/health", handler.Health)

	api := engine.Group("/api")

	// 无需登录的接口
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/resend-code", h.Auth.ResendCode)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	api.GET("/home/projects", h.Home.Feed)
	api.GET("/users/username/:username", h.User.GetByUsername)

	// 需要登录的接口
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtSecret))
	{
		authed.GET("/users/me", h.User.Me)
		authed.GET("/users/:userId", h.User.GetById)

		profile := authed.Group("/profile")
		{
			profile.GET("", h.Profile.GetBiodata)
			profile.POST("", h.Profile.UpdateBiodata)
			profile.PATCH("/photo", h.Profile.UpdatePhoto)
			profile.DELETE("/photo", h.Profile.RemovePhoto)
		}

		follows := authed.Group("/follows")
		{
			follows.GET("/find", h.Follow.FindUsers)
			follows.GET("/followers", h.Follow.Followers)
			follows.GET("/following", h.Follow.Following)
			follows.POST("/:followingId", h.Follow.Follow)
			follows.DELETE("/:followingId", h.Follow.Unfollow)
		}

		connections := authed.Group("/connections")
		{
			connections.GET("/github", h.Connection.GitHubAuthorize)
			connections.GET("/github/callback", h.Connection.GitHubCallback)
			connections.GET("", h.Connection.List)
			connections.DELETE("/:id", h.Connection.Delete)
		}

		projects := authed.Group("/projects")
		{
			projects.POST("", h.Project.Create)
			projects.GET("", h.Project.Owned)
			projects.GET("/contributing", h.Project.Contributing)
			projects.GET("/contributors", h.Project.GeneralContributors)
			projects.GET("/contributors/recent", h.Project.RecentGeneralContributors)

			projects.GET("/:projectId/details", h.Project.GetDetails)
			projects.PATCH("/:projectId/manage", h.Project.Update)
			projects.PATCH("/:projectId/escrow-activate", h.Project.ActivateEscrow)
			projects.GET("/:projectId/contributors", h.Project.Contributors)
			projects.GET("/:projectId/contributors/recent", h.Project.RecentContributors)
		}

		milestones := authed.Group("/milestones")
		{
			milestones.GET("/:projectId", h.Milestone.List)
			milestones.PATCH("/:projectId/create", h.Milestone.Create)
			milestones.PATCH("/:projectId/manage", h.Milestone.Manage)
		}

		tasks := authed.Group("/tasks")
		{
			tasks.GET("/milestones/:milestoneId", h.Task.List)
			tasks.POST("/projects/:projectId/milestones/:milestoneId", h.Task.Manage)
			tasks.DELETE("/projects/:projectId/milestones/:milestoneId/tasks/:taskId", h.Task.Delete)
		}
	}

	return engine
}

// corsMiddleware 跨域支持
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
