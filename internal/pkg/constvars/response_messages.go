package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Workspace messages
	GetWorkspaceSuccessMessage   = "assessment loaded successfully"
	CloseWorkspaceSuccessMessage = "assessment closed successfully"
	RecordAnswerSuccessMessage   = "answer recorded successfully"
	RecordCommentSuccessMessage  = "comment recorded successfully"
	SubmitPillarSuccessMessage   = "assessment submitted successfully"
	GetPillarScoreSuccessMessage = "get pillar score successfully"
	UploadEvidenceSuccessMessage = "evidence uploaded successfully"
	DeleteEvidenceSuccessMessage = "evidence delete processed"
	ListEvidenceSuccessMessage   = "get evidence successfully"
	GetSummaryStatusMessage      = "get summary status successfully"
	GetSummaryResultsMessage     = "get summary results successfully"
	SubmitSummarySuccessMessage  = "summary submitted successfully"
	GetAuditReviewSuccessMessage = "get audit review successfully"
	RecordAuditScoreMessage      = "auditor score recorded successfully"
	SubmitAuditScoresMessage     = "auditor scores submitted successfully"
	GetCertificateSuccessMessage = "get certificate successfully"
	HealthCheckSuccessMessage    = "service is healthy"
)
