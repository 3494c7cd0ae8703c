package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"studioai/internal/app/studio/entity"
	"studioai/pkg/logger"
)

// respondOK отправляет успешный ответ в едином конверте
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, entity.APIResponse{
		Success: true,
		Data:    data,
	})
}

// respondMessage отправляет успешный ответ без данных
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, entity.APIResponse{
		Success: true,
		Message: message,
	})
}

// respondList отправляет страницу данных с блоком пагинации
func respondList(c *gin.Context, data interface{}, pagination *entity.Pagination) {
	c.JSON(http.StatusOK, entity.APIResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// respondError отправляет ошибку в едином конверте
func respondError(c *gin.Context, status int, errName, message string) {
	c.AbortWithStatusJSON(status, entity.APIResponse{
		Success: false,
		Error:   errName,
		Message: message,
	})
}

// respondValidationError раскладывает ошибку биндинга в поимённые
// сообщения по полям
func respondValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, entity.APIResponse{
		Success: false,
		Error:   "Validation Failed",
		Message: "Invalid request body",
		Details: validationDetails(err),
	})
}

// respondInternal логирует полный контекст и отвечает generic 500.
// Детали ошибки наружу уходят только вне production.
func respondInternal(c *gin.Context, env string, err error) {
	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")

	message := "Something went wrong"
	if env != "production" && err != nil {
		message = err.Error()
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, entity.APIResponse{
		Success: false,
		Error:   "Internal Server Error",
		Message: message,
	})
}

func validationDetails(err error) map[string]string {
	details := make(map[string]string)

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		details["body"] = "malformed request body"
		return details
	}

	for _, fe := range vErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details[field] = "is required"
		case "email":
			details[field] = "must be a valid email address"
		case "min":
			details[field] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			details[field] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "url":
			details[field] = "must be a valid URL"
		default:
			details[field] = "is invalid"
		}
	}

	return details
}
