package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingDataKey           = "data"
	LoggingQueryParamsKey    = "query_params"
	LoggingResponseKey       = "response"
	LoggingRequestKey        = "request"
	LoggingResponseLengthKey = "response_length"
	LoggingResponseCountKey  = "response_count"
	LoggingStatusCodeKey     = "status_code"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingURLKey            = "url"

	LoggingPillarKey        = "pillar_key"
	LoggingRespondentIDKey  = "respondent_id"
	LoggingCompanyIDKey     = "company_id"
	LoggingQuestionIDKey    = "question_id"
	LoggingChoiceIDKey      = "choice_id"
	LoggingCriteriaIDKey    = "criteria_id"
	LoggingEvidenceIDKey    = "evidence_id"
	LoggingCacheKey         = "cache_key"
	LoggingItemCountKey     = "item_count"
	LoggingFileCountKey     = "file_count"
	LoggingOutcomeKey       = "outcome"
	LoggingScoreKey         = "score"
	LoggingLevelKey         = "level"
	LoggingSchedulerKey     = "scheduler_key"
	LoggingQueueNameKey     = "queue_name"
	LoggingEventTypeKey     = "event_type"
	LoggingObjectNameKey    = "object_name"
	LoggingBranchKey        = "branch"
	LoggingSubmittedAtKey   = "submitted_at"
	LoggingLockedKey        = "locked"
	LoggingCacheDriverKey   = "cache_driver"
	LoggingWorkspaceKeyName = "workspace_key"
)
