package util

import (
	"errors"
	"net/http"
)

// ServiceError 携带 HTTP 状态码和错误码的错误，未携带时按 400 处理
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewServiceError(status int, code string, message string) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message}
}

// StatusOf 返回错误对应的 HTTP 状态码和错误码
func StatusOf(err error) (int, string) {
	var e *ServiceError
	if errors.As(err, &e) {
		return e.Status, e.Code
	}
	return http.StatusBadRequest, "1"
}
