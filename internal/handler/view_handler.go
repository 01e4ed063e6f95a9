package handler

import (
	"net/http"
	"time"

	"github.com/devfolio/internal/service"
	"github.com/devfolio/internal/visitor"
	"github.com/gin-gonic/gin"
)

// RecordView 记录一次页面浏览。无论结果如何都返回 200：
// 调用方把所有拒绝原因一律当作“不要显示增加后的计数”。
func (a *API) RecordView(c *gin.Context) {
	result := a.views.RecordView(c.Request.Context(), service.ViewRequest{
		Slug:      c.Param("slug"),
		ClientIP:  visitor.ClientIP(c.Request.Header),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}, time.Now())

	if !result.Accepted {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": result.Reason})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "views": result.Views})
}
