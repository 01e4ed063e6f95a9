package router

import (
	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("devfolio_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/login", api.Login)
		apiGroup.POST("/logout", api.Logout)

		// 公共内容接口
		apiGroup.GET("/posts", api.ListPublishedPosts)
		apiGroup.GET("/posts/:slug", api.GetPublishedPost)
		apiGroup.POST("/posts/:slug/view", api.RecordView)
		apiGroup.POST("/chat", api.Chat)

		// 需要认证的后台接口
		admin := apiGroup.Group("/admin")
		admin.Use(handler.AuthRequired())
		{
			admin.GET("/posts", api.ListPosts)
			admin.GET("/posts/:slug", api.GetPost)
			admin.POST("/posts", api.CreatePost)
			admin.PUT("/posts/:slug", api.UpdatePost)
			admin.DELETE("/posts/:slug", api.DeletePost)
			admin.GET("/stats", api.Stats)
		}
	}

	return r
}
