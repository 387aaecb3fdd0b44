package filter

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/kart-io/launchpad/pkg/infra/datasource"
	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/utils/errors"
	"github.com/kart-io/launchpad/pkg/utils/validator"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// Default returns the chain with the standard filters in registration order:
// catch-all, not-found, forbidden, query-failed, generic-http, validation.
func Default(language LanguageFunc) *Chain {
	return NewChain(language).
		Register(CatchAll()).
		Register(NotFound()).
		Register(Forbidden()).
		Register(QueryFailed()).
		Register(GenericHTTP()).
		Register(Validation())
}

// CatchAll handles anything, logging it as an unexpected error.
func CatchAll() Filter {
	return Filter{
		Name:        "catch-all",
		Specificity: SpecificityAny,
		Match:       func(error) bool { return true },
		Handle: func(c *gin.Context, err error) *errors.Errno {
			infralogger.LogError(c.Request.Context(), "Unhandled request error", err, false)
			return errors.ErrInternal.WithCause(err)
		},
	}
}

// NotFound handles missing records and 404 errnos.
func NotFound() Filter {
	return Filter{
		Name:        "not-found",
		Specificity: SpecificityDerived,
		Match: func(err error) bool {
			return stderrors.Is(err, gorm.ErrRecordNotFound) || errors.HasStatus(err, http.StatusNotFound)
		},
		Handle: func(_ *gin.Context, err error) *errors.Errno {
			var e *errors.Errno
			if stderrors.As(err, &e) {
				return e
			}
			return errors.ErrNotFound.WithCause(err)
		},
	}
}

// Forbidden handles 403 errnos.
func Forbidden() Filter {
	return Filter{
		Name:        "forbidden",
		Specificity: SpecificityDerived,
		Match: func(err error) bool {
			return errors.HasStatus(err, http.StatusForbidden)
		},
		Handle: func(_ *gin.Context, err error) *errors.Errno {
			return errors.FromError(err)
		},
	}
}

// QueryFailed handles driver errors and QueryError. Unique violations
// become conflicts; everything else is a failed query.
func QueryFailed() Filter {
	return Filter{
		Name:        "query-failed",
		Specificity: SpecificityDerived,
		Match:       isQueryFailure,
		Handle: func(c *gin.Context, err error) *errors.Errno {
			if isUniqueViolation(err) {
				return errors.ErrConflict.WithCause(err)
			}
			infralogger.LogError(c.Request.Context(), "Database query failed", err, false)
			return errors.ErrQueryFailed.WithCause(err)
		},
	}
}

// GenericHTTP handles any errno and oversized bodies.
func GenericHTTP() Filter {
	return Filter{
		Name:        "generic-http",
		Specificity: SpecificityHTTP,
		Match: func(err error) bool {
			var e *errors.Errno
			var tooLarge *http.MaxBytesError
			return stderrors.As(err, &e) || stderrors.As(err, &tooLarge)
		},
		Handle: func(_ *gin.Context, err error) *errors.Errno {
			var e *errors.Errno
			if stderrors.As(err, &e) {
				return e
			}
			return errors.ErrRequestTooLarge.WithCause(err)
		},
	}
}

// Validation handles validation pipe failures, rendering per-field details.
func Validation() Filter {
	return Filter{
		Name:        "validation",
		Specificity: SpecificityDerived,
		Match: func(err error) bool {
			var ve *validator.ValidationErrors
			var raw playground.ValidationErrors
			return stderrors.As(err, &ve) || stderrors.As(err, &raw)
		},
		Handle: func(c *gin.Context, err error) *errors.Errno {
			var ve *validator.ValidationErrors
			if !stderrors.As(err, &ve) {
				return errors.ErrValidationFailed.WithCause(err)
			}
			c.Set(ContextKeyDetails, ve.ByField())
			first := ve.First()
			return errors.ErrValidationFailed.WithMessages(first, first).WithCause(err)
		},
	}
}

// ContextKeyDetails holds per-field validation messages for the response.
const ContextKeyDetails = "launchpad.details"

func isQueryFailure(err error) bool {
	var (
		qe    *datasource.QueryError
		pgErr *pgconn.PgError
		myErr *mysql.MySQLError
	)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	return stderrors.As(err, &qe) ||
		stderrors.As(err, &pgErr) ||
		stderrors.As(err, &myErr) ||
		stderrors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.GetCategory(errors.GetCode(err)) == errors.CategoryDatabase
}

func isUniqueViolation(err error) bool {
	var (
		pgErr *pgconn.PgError
		myErr *mysql.MySQLError
	)
	switch {
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return true
	case stderrors.As(err, &pgErr):
		return pgErr.Code == pgerrcode.UniqueViolation
	case stderrors.As(err, &myErr):
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}
