// Package interceptor wraps handler results in the response envelope and
// logs the errors a request produced.
package interceptor

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/infra/middleware"
	"github.com/kart-io/launchpad/pkg/utils/errors"
	"github.com/kart-io/launchpad/pkg/utils/json"
	"github.com/kart-io/launchpad/pkg/utils/response"
	"github.com/kart-io/launchpad/pkg/utils/validator"
)

const contextKeyResult = "launchpad.result"

type result struct {
	status int
	data   interface{}
}

// Respond stores data for Serialize to wrap in the success envelope.
func Respond(c *gin.Context, status int, data interface{}) {
	c.Set(contextKeyResult, result{status: status, data: data})
}

// OK is Respond with 200.
func OK(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, data)
}

// Write renders r with the request id and a timestamp.
func Write(c *gin.Context, r *response.Response) {
	r.WithRequestID(middleware.GetRequestID(c)).Stamp()
	c.Render(r.HTTPStatus(), json.Render{Data: r})
}

// WriteError renders e in lang and aborts the chain.
func WriteError(c *gin.Context, e *errors.Errno, lang string) {
	Write(c, response.ErrWithLang(e, lang))
	c.Abort()
}

// Serialize renders results stored with Respond. Requests that failed or
// already wrote a body are left alone.
func Serialize() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}
		v, ok := c.Get(contextKeyResult)
		if !ok {
			return
		}
		res := v.(result)
		r := response.Success(res.data)
		if res.status != 0 {
			r.HTTPCode = res.status
		}
		Write(c, r)
	}
}

// ErrorLogging logs every error attached to the request with the request
// context fields. Server errors log at error level, client errors at debug.
func ErrorLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		log := infralogger.GetLogger(c.Request.Context())
		for _, ginErr := range c.Errors {
			err := ginErr.Err
			fields := append(infralogger.ErrorFields(err), "path", c.Request.URL.Path)
			e := errors.FromError(err)
			if e.HTTPStatus() >= http.StatusInternalServerError {
				log.Errorw("Request error", fields...)
				continue
			}
			log.Debugw("Request error", fields...)
		}
	}
}

// BindJSON binds the request body into obj through gin's validator. A
// failure is attached to the request and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var (
		ve       *validator.ValidationErrors
		tooLarge *http.MaxBytesError
	)
	switch {
	case stderrors.As(err, &ve):
		_ = c.Error(ve)
	case stderrors.As(err, &tooLarge):
		_ = c.Error(errors.ErrRequestTooLarge.WithCause(err))
	default:
		_ = c.Error(errors.ErrInvalidParam.WithCause(err))
	}
	return false
}

// Language picks the response language from Accept-Language, or fallback
// when the header names no supported language.
func Language(c *gin.Context, fallback string) string {
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
		switch primary {
		case validator.LangEN, validator.LangZH:
			return primary
		}
	}
	if fallback == "" {
		return validator.DefaultLanguage
	}
	return fallback
}
