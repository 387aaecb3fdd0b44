package resilience

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/launchpad/pkg/infra/interceptor"
	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// Recovery turns a handler panic into a 500 envelope. The full stack is
// logged; the client only sees the panic value.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			infralogger.GetLogger(c.Request.Context()).Errorw("panic recovered",
				"panic", fmt.Sprint(r),
				"stack_trace", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			interceptor.WriteError(c, errors.ErrPanic.WithMessage(fmt.Sprintf("panic: %v", r)), interceptor.Language(c, ""))
		}()
		c.Next()
	}
}
