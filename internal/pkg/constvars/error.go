package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required":   "is required",
	"min":        "must be at least %s",
	"max":        "must be at most %s",
	"gt":         "must be greater than %s",
	"gte":        "must be greater than or equal to %s",
	"lte":        "must be less than or equal to %s",
	"oneof":      "must be one of [%s]",
	"url":        "must be a valid URL",
	"pillar_key": "must be a known pillar key",
}

// Validation tags whose message carries the tag param
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"gt":    true,
	"gte":   true,
	"lte":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientSubmissionLocked              = "this assessment has already been submitted and can no longer be changed"
	ErrClientAuditorLocked                 = "auditor scores have already been submitted and can no longer be changed"
	ErrClientAuditIncomplete               = "every question must be scored before submitting"
	ErrClientSummaryIncomplete             = "every pillar must be answered before submitting"
	ErrClientInvalidChoice                 = "the selected answer does not belong to this question"
	ErrClientInvalidCriteria               = "the selected criteria does not belong to this question"
	ErrClientQuestionNotFound              = "question not found"
	ErrClientWorkspaceNotFound             = "assessment is not open, load it first"
	ErrClientResourceNotFound              = "resource not found"
	ErrClientBackendUnavailable            = "the assessment service is unavailable, please try again"
	ErrClientMissingRespondent             = "user id is required"
	ErrClientUnknownPillar                 = "unknown pillar"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevCannotParseMultipartForm   = "cannot parse multipart form"
	ErrDevValidationFailed           = "validation failed"
	ErrDevURLParamIDValidationFailed = "failed to validate url param %s"
	ErrDevMissingRequestID           = "request id missing from context"
	ErrDevServerDeadlineExceeded     = "deadline exceeded"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"
	ErrDevSendHTTPRequest            = "failed to send HTTP request"
	ErrDevDecodeHTTPResponse         = "failed to decode HTTP response"
	ErrDevBuildMultipartBody         = "failed to build multipart body"
	ErrDevRateLimitWait              = "outbound rate limiter wait failed"

	ErrDevHICMRequestFailed    = "hicm backend returned status %d: %s"
	ErrDevHICMNotFound         = "hicm backend resource not found: %s"
	ErrDevHICMAlreadySubmitted = "hicm backend refused, already submitted: %s"
	ErrDevSubmissionLocked     = "pillar submission is locked"
	ErrDevAuditorLocked        = "auditor submission is locked"
	ErrDevAuditIncomplete      = "auditor scores incomplete: %d of %d questions scored"
	ErrDevSummaryIncomplete    = "summary submission refused by backend"
	ErrDevInvalidChoice        = "choice %d does not belong to question %d"
	ErrDevInvalidCriteria      = "criteria %d does not belong to question %d"
	ErrDevQuestionNotFound     = "question %d not found in pillar"
	ErrDevWorkspaceNotFound    = "no open workspace for key %s"
	ErrDevUnknownPillar        = "unknown pillar key %s"
	ErrDevMissingRespondent    = "respondent id could not be resolved from query or token"
	ErrDevInvalidLevelBands    = "invalid level bands"
	ErrDevReadLevelBandsFile   = "failed to read level bands file"
	ErrDevInvalidQuestionnaire = "questionnaire failed normalization"

	ErrDevRedisGet     = "failed to get value from redis"
	ErrDevRedisSet     = "failed to set value into redis"
	ErrDevRedisDelete  = "failed to delete value from redis"
	ErrDevSQLiteGet    = "failed to get value from sqlite"
	ErrDevSQLiteSet    = "failed to set value into sqlite"
	ErrDevSQLiteDelete = "failed to delete value from sqlite"

	ErrDevPublishEvent    = "failed to publish event to rabbitmq"
	ErrDevPublishNotAcked = "rabbitmq did not ack published event"
	ErrDevUploadObject    = "failed to upload object to minio"
	ErrDevPresignObject   = "failed to build presigned url"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrFunctionNameUnknown = "function name unknown"
)
