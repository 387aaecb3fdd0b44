package errors

import "net/http"

// OK is the success sentinel. It is not an error and is not registered.
var OK = &Errno{Code: 0, HTTP: http.StatusOK, MessageEN: "Success", MessageZH: "成功"}

// Request errors (400)
var (
	ErrBadRequest = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryRequest, 1), HTTP: http.StatusBadRequest,
		MessageEN: "Bad request", MessageZH: "请求错误",
	})
	ErrInvalidParam = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryRequest, 2), HTTP: http.StatusBadRequest,
		MessageEN: "Invalid parameter", MessageZH: "参数无效",
	})
	ErrValidationFailed = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryRequest, 3), HTTP: http.StatusBadRequest,
		MessageEN: "Validation failed", MessageZH: "校验失败",
	})
)

// Authentication and authorization errors (401/403)
var (
	ErrUnauthorized = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryAuth, 1), HTTP: http.StatusUnauthorized,
		MessageEN: "Unauthorized", MessageZH: "未授权",
	})
	ErrInvalidToken = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryAuth, 2), HTTP: http.StatusUnauthorized,
		MessageEN: "Invalid token", MessageZH: "令牌无效",
	})
	ErrForbidden = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryPermission, 1), HTTP: http.StatusForbidden,
		MessageEN: "Forbidden resource", MessageZH: "禁止访问",
	})
)

// Resource errors (404/409)
var (
	ErrNotFound = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryResource, 1), HTTP: http.StatusNotFound,
		MessageEN: "Resource not found", MessageZH: "资源不存在",
	})
	ErrRouteNotFound = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryResource, 2), HTTP: http.StatusNotFound,
		MessageEN: "Route not found", MessageZH: "路由不存在",
	})
	ErrConflict = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryConflict, 1), HTTP: http.StatusConflict,
		MessageEN: "Resource conflict", MessageZH: "资源冲突",
	})
)

// Limit errors (413)
var (
	ErrRequestTooLarge = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryRateLimit, 1), HTTP: http.StatusRequestEntityTooLarge,
		MessageEN: "Request entity too large", MessageZH: "请求体过大",
	})
)

// Internal errors (500)
var (
	ErrInternal = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryInternal, 1), HTTP: http.StatusInternalServerError,
		MessageEN: "Internal server error", MessageZH: "服务器内部错误",
	})
	ErrPanic = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryInternal, 2), HTTP: http.StatusInternalServerError,
		MessageEN: "Internal server error", MessageZH: "服务器内部错误",
	})
	ErrDatabase = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryDatabase, 1), HTTP: http.StatusInternalServerError,
		MessageEN: "Database error", MessageZH: "数据库错误",
	})
	ErrQueryFailed = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryDatabase, 2), HTTP: http.StatusInternalServerError,
		MessageEN: "Query failed", MessageZH: "查询失败",
	})
	ErrConfigMissing = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryConfig, 1), HTTP: http.StatusInternalServerError,
		MessageEN: "Configuration missing", MessageZH: "缺少配置",
	})
	ErrConfigInvalid = Register(&Errno{
		Code: MakeCode(ServiceCommon, CategoryConfig, 2), HTTP: http.StatusInternalServerError,
		MessageEN: "Configuration invalid", MessageZH: "配置无效",
	})
)
