package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_BEARER_TOKEN_KEY         ContextKey = "bearer_token"
	CONTEXT_RESPONDENT_ID_KEY        ContextKey = "respondent_id"
)

const (
	REQUEST_ID_PREFIX = "HICM_SVC_"
)

const (
	ServiceName = "hicm-service"
)

const (
	PillarKeyHealthPromotion          = "pillar-1"
	PillarKeyIndustrialSafety         = "pillar-2"
	PillarKeyCommunityEngagement      = "pillar-3"
	PillarKeyManagementSustainability = "pillar-4"
)

const (
	AnonymousRespondent = "anonymous"

	DraftCacheKeyFormat    = "company-assessment-%s-%s"
	PillarCacheKeyFormat   = "hicm:pillar:%s"
	PersistSchedulerFormat = "persist:%s:%s"
	WorkspaceKeyFormat     = "%s:%s"
	AuditWorkspaceFormat   = "audit:%s:%s"
)

const (
	// MaxRawScorePerQuestion is the raw score of a fully met question.
	MaxRawScorePerQuestion = 20.0
	MaxStarCount           = 5
	DefaultEvidenceLabel   = "file"
	EvidenceFormField      = "files"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverSQLite = "sqlite"
)

const (
	EventTypeSubmissionLocked = "submission.locked"
	EventTypeAuditLocked      = "audit.locked"
	EventTypeSummarySubmitted = "summary.submitted"
)

const (
	CertificateObjectFormat = "certificates/%s/%s.json"
)

const (
	BranchPillar       = "pillar"
	BranchDraft        = "draft"
	BranchSubmitStatus = "submit_status"
)
