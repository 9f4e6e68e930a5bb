package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
)

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryBool(c *gin.Context, name string) bool {
	return strings.EqualFold(c.DefaultQuery(name, "false"), "true")
}

// respondStoreError maps persistence errors, answering constraint violations with 409.
func respondStoreError(c *gin.Context, err error, context string) {
	info := apperrors.ParseError(err, context)
	switch info.Code {
	case apperrors.CategoryAlreadyExists, apperrors.KeywordAlreadyExists, apperrors.ResourceAlreadyExists:
		apperrors.Conflict(c, info.Code, info.Message)
	default:
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}
