package api

import (
	"errors"
	"net/http"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/ledger"
	"alcyxob/gymledger/internal/messaging"
	"alcyxob/gymledger/internal/repository"
	"alcyxob/gymledger/internal/service"
	"alcyxob/gymledger/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var badRequestErrors = []error{
	domain.ErrInvalidDuration,
	domain.ErrInvalidPlanDuration,
	domain.ErrInvalidAmount,
	domain.ErrMissingProductName,
	domain.ErrMissingMemberFields,
	ledger.ErrInvalidWindow,
	messaging.ErrInvalidMessageType,
	storage.ErrUnsupportedContentType,
	service.ErrInvalidRole,
	service.ErrInvalidStatus,
	service.ErrPasswordRequired,
	service.ErrMissingGymField,
	service.ErrInvalidPhotoKind,
	service.ErrInvalidPhotoKey,
	service.ErrPhotoNotUploaded,
}

var conflictErrors = []error{
	service.ErrUsernameTaken,
	service.ErrGymExists,
	service.ErrConcurrentUpdate,
	repository.ErrDuplicate,
	repository.ErrVersionConflict,
}

// statusForError maps service and domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondWithError aborts with the status matching err. Internal errors are
// logged and hidden from the client.
func respondWithError(c *gin.Context, log *zap.Logger, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		_ = c.Error(err)
		abortWithError(c, status, "An unexpected error occurred")
		return
	}
	abortWithError(c, status, err.Error())
}
