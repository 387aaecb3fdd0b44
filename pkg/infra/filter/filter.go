// Package filter maps request errors to responses. Filters are registered
// from general to specific; dispatch picks the matching filter with the
// highest specificity and, between equals, the one registered last.
package filter

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/launchpad/pkg/infra/interceptor"
	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/utils/errors"
	"github.com/kart-io/launchpad/pkg/utils/response"
)

// Specificity levels: how deep a filter's error type sits in the taxonomy.
const (
	SpecificityAny     = 0
	SpecificityHTTP    = 1
	SpecificityDerived = 2
)

// Filter handles the errors its Match accepts.
type Filter struct {
	Name        string
	Specificity int
	Match       func(err error) bool
	// Handle maps err to the errno rendered to the client.
	Handle func(c *gin.Context, err error) *errors.Errno
}

// LanguageFunc picks the response language of a request.
type LanguageFunc func(c *gin.Context) string

// Chain is an ordered filter list.
type Chain struct {
	mu       sync.RWMutex
	filters  []Filter
	language LanguageFunc
}

// NewChain creates an empty chain. A nil language renders English.
func NewChain(language LanguageFunc) *Chain {
	if language == nil {
		language = func(c *gin.Context) string { return interceptor.Language(c, "") }
	}
	return &Chain{language: language}
}

// Register appends f.
func (ch *Chain) Register(f Filter) *Chain {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.filters = append(ch.filters, f)
	return ch
}

// Filters returns the registered filter names in registration order.
func (ch *Chain) Filters() []string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	names := make([]string, len(ch.filters))
	for i, f := range ch.filters {
		names[i] = f.Name
	}
	return names
}

// Dispatch returns the filter that handles err.
func (ch *Chain) Dispatch(err error) (Filter, bool) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	best := -1
	for i, f := range ch.filters {
		if !f.Match(err) {
			continue
		}
		// >= so a later filter wins a tie
		if best < 0 || f.Specificity >= ch.filters[best].Specificity {
			best = i
		}
	}
	if best < 0 {
		return Filter{}, false
	}
	return ch.filters[best], true
}

// Handle renders err through the dispatched filter. Errors no filter
// matches are rendered as internal errors.
func (ch *Chain) Handle(c *gin.Context, err error) {
	e := errors.ErrInternal
	if f, ok := ch.Dispatch(err); ok {
		c.Set(ContextKeyFilter, f.Name)
		e = f.Handle(c, err)
	}

	r := response.ErrWithLang(e, ch.language(c))
	if details, ok := c.Get(ContextKeyDetails); ok {
		r.WithData(details)
	}
	interceptor.Write(c, r)
	c.Abort()
}

// ContextKeyFilter holds the name of the filter that rendered the error.
const ContextKeyFilter = "launchpad.filter"

// Middleware renders the last error attached to the request when nothing
// was written. Panics below it are dispatched as errors.
func (ch *Chain) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				infralogger.GetLogger(c.Request.Context()).Errorw("panic recovered",
					"panic", fmt.Sprint(r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request.URL.Path,
				)
				err, ok := r.(error)
				if !ok {
					err = errors.ErrPanic.WithMessage(fmt.Sprintf("panic: %v", r))
				}
				_ = c.Error(err)
				if !c.Writer.Written() {
					ch.Handle(c, err)
				}
			}
		}()

		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		ch.Handle(c, last.Err)
	}
}

// Install adds the chain to engine and routes unmatched paths into it.
func (ch *Chain) Install(engine *gin.Engine) {
	engine.Use(ch.Middleware())
	engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(errors.ErrRouteNotFound)
	})
}
