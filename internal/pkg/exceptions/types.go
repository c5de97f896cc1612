package exceptions

import (
	"errors"
	"fmt"
	"hicm-service/internal/pkg/constvars"
)

// AlreadySubmitted is wrapped by errors for requests the backend refused
// because the target is already locked on its side.
var AlreadySubmitted = errors.New("already submitted")

func IsAlreadySubmitted(err error) bool {
	return errors.Is(err, AlreadySubmitted)
}

var (
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidationFailed, paramName))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrMissingRespondent = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientMissingRespondent, constvars.ErrDevMissingRespondent)
	}
	ErrUnknownPillar = func(err error, pillarKey string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientUnknownPillar, fmt.Sprintf(constvars.ErrDevUnknownPillar, pillarKey))
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}

	// Outbound HICM backend
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCreateHTTPRequest)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientBackendUnavailable, constvars.ErrDevSendHTTPRequest)
	}
	ErrDecodeResponse = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientBackendUnavailable, constvars.ErrDevDecodeHTTPResponse)
	}
	ErrBuildMultipartBody = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevBuildMultipartBody)
	}
	ErrRateLimitWait = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusServiceUnavailable, constvars.ErrClientBackendUnavailable, constvars.ErrDevRateLimitWait)
	}
	ErrHICMRequest = func(err error, statusCode int, detail string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientBackendUnavailable, fmt.Sprintf(constvars.ErrDevHICMRequestFailed, statusCode, detail))
	}
	ErrHICMNotFound = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientResourceNotFound, fmt.Sprintf(constvars.ErrDevHICMNotFound, resource))
	}
	ErrHICMAlreadySubmitted = func(detail string) *CustomError {
		return BuildNewCustomError(AlreadySubmitted, constvars.StatusConflict, constvars.ErrClientSubmissionLocked, fmt.Sprintf(constvars.ErrDevHICMAlreadySubmitted, detail))
	}

	// Assessment workflow
	ErrSubmissionLocked = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientSubmissionLocked, constvars.ErrDevSubmissionLocked)
	}
	ErrAuditorLocked = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientAuditorLocked, constvars.ErrDevAuditorLocked)
	}
	ErrAuditIncomplete = func(err error, scored, total int) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientAuditIncomplete, fmt.Sprintf(constvars.ErrDevAuditIncomplete, scored, total))
	}
	ErrSummaryIncomplete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientSummaryIncomplete, constvars.ErrDevSummaryIncomplete)
	}
	ErrInvalidChoice = func(err error, choiceID, questionID int64) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidChoice, fmt.Sprintf(constvars.ErrDevInvalidChoice, choiceID, questionID))
	}
	ErrInvalidCriteria = func(err error, criteriaID, questionID int64) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidCriteria, fmt.Sprintf(constvars.ErrDevInvalidCriteria, criteriaID, questionID))
	}
	ErrQuestionNotFound = func(err error, questionID int64) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientQuestionNotFound, fmt.Sprintf(constvars.ErrDevQuestionNotFound, questionID))
	}
	ErrWorkspaceNotFound = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientWorkspaceNotFound, fmt.Sprintf(constvars.ErrDevWorkspaceNotFound, key))
	}
	ErrInvalidLevelBands = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevInvalidLevelBands)
	}
	ErrReadLevelBandsFile = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevReadLevelBandsFile)
	}
	ErrInvalidQuestionnaire = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientBackendUnavailable, constvars.ErrDevInvalidQuestionnaire)
	}

	// Cache drivers
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGet)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSet)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDelete)
	}
	ErrSQLiteGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevSQLiteGet)
	}
	ErrSQLiteSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevSQLiteSet)
	}
	ErrSQLiteDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevSQLiteDelete)
	}

	// Messaging and storage
	ErrPublishEvent = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevPublishEvent)
	}
	ErrPublishNotAcked = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevPublishNotAcked)
	}
	ErrUploadObject = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevUploadObject)
	}
	ErrPresignObject = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevPresignObject)
	}
)
