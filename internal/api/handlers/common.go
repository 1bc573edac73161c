package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobtrack/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// defaultMessages is the copy used when an error has no safe message of its own.
var defaultMessages = map[utils.Code]string{
	utils.CodeInvalidArgument: "The application is incomplete or invalid.",
	utils.CodeUnauthorized:    "Please sign in again.",
	utils.CodeForbidden:       "You can only access your own applications.",
	utils.CodeNotFound:        "Application not found.",
	utils.CodeUnavailable:     "The application store is unavailable. Please try again.",
	utils.CodeTimeout:         "The application store took too long to respond.",
}

// writeError renders err as the API's {code,message} body and records it for
// the request logger.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := utils.CodeOf(err, utils.CodeInternal)
	if code == utils.CodeInternal && errors.Is(err, utils.ErrNotFound) {
		code = utils.CodeNotFound
	}

	msg := utils.UserMessage(err)
	var ae *utils.AppError
	if !errors.As(err, &ae) || ae.Message == "" {
		if m, ok := defaultMessages[code]; ok {
			msg = m
		}
	}

	c.JSON(utils.StatusFor(code), APIError{Code: code, Message: msg})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}
