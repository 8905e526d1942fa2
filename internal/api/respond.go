package api

import (
	"strconv"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError aborts with {"message", "code"}. Internal causes are logged,
// never sent.
func writeError(c *gin.Context, err error) {
	appErr := apperr.From(err)

	if appErr.Kind == apperr.KindInternal {
		util.LoggerFromContext(c.Request.Context()).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.AbortWithStatusJSON(appErr.Status(), gin.H{
		"message": appErr.Message,
		"code":    appErr.Code,
	})
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, apperr.Validation("Invalid request body"))
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, apperr.Validation("Invalid id"))
		return 0, false
	}
	return id, true
}
