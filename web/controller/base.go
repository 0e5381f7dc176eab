// Package controller provides the HTTP request handlers for the
// faceattend backend.
package controller

import (
	"strings"

	"faceattend/util/jwt"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality shared by controllers.
type BaseController struct {
	issuer *jwt.Issuer
}

// bearerClaims extracts and verifies the bearer token from the
// Authorization header. Returns nil when the header is missing or the
// token does not verify.
func (a *BaseController) bearerClaims(c *gin.Context) *jwt.Claims {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	claims, err := a.issuer.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}
