package constant

import (
	"time"
)

const (
	ContextSystem = "system"
)

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyIdentity contextKey = "identity"
	ContextKeySkipAuth contextKey = "skip_auth"
)

const (
	RequestParamPage     = "page"
	RequestParamLimit    = "limit"
	RequestParamSortBy   = "sort_by"
	RequestParamSortDir  = "sort_dir"
	RequestParamHostelID = "hostelId"
	RequestParamRole     = "role"
	RequestParamEmail    = "email"
)

const (
	RequestParamID   = "id"
	RequestMaxMemory = 5 << 20
	FormFileImage    = "image"
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 50
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	DateFormat = time.RFC3339
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"

	OtelQueryAttributeKey = "query"
	OtelS3ScopeName       = "s3"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderAPIKey             = "X-API-Key"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseHealthy                   = "OK"
)

const (
	ServerEnvDevelopment = "development"
)

const (
	Asterix       = "*"
	Empty         = ""
	CacheKeyDelim = ":"

	// CacheKeyHostelStats is shared by the hostel and room services; room
	// writes change the aggregate.
	CacheKeyHostelStats = "hostel:stats"
)
