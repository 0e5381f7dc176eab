package controller

import (
	"net/http"

	"faceattend/logger"
	"faceattend/web/entity"

	"github.com/gin-gonic/gin"
)

// jsonObj sends a success envelope carrying obj.
func jsonObj(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, entity.Msg{
		Success: true,
		Obj:     obj,
	})
}

// jsonMsgObj sends a success envelope carrying a message and obj.
func jsonMsgObj(c *gin.Context, msg string, obj any) {
	c.JSON(http.StatusOK, entity.Msg{
		Success: true,
		Msg:     msg,
		Obj:     obj,
	})
}

// jsonError sends a failure envelope with the given status code. The
// underlying error is logged but only msg reaches the caller, so
// internals never leak.
func jsonError(c *gin.Context, statusCode int, msg string, err error) {
	if err != nil {
		logger.Warning(msg+":", err)
	}
	c.JSON(statusCode, entity.Msg{
		Success: false,
		Msg:     msg,
	})
}
