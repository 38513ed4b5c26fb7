package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/checkout"
	apperrors "github.com/freshmart/checkoutapi/pkg/errors"
)

// respondError maps the workflow's error kinds to HTTP statuses. Every
// kind surfaces as a single human-readable message; anything unclassified
// falls back to a generic one so the client never sees internals.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr   *apperrors.ErrValidation
		gatewayErr      *apperrors.ErrGateway
		backendErr      *apperrors.ErrBackend
		notFoundErr     *apperrors.ErrNotFound
		unauthorizedErr *apperrors.ErrUnauthorized
		unknownErr      *apperrors.ErrUnknown
	)

	switch {
	case stderrors.Is(err, checkout.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case stderrors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Error()})
	case stderrors.As(err, &gatewayErr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": gatewayErr.Error()})
	case stderrors.As(err, &backendErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": backendErr.Error()})
	case stderrors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case stderrors.As(err, &unauthorizedErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": unauthorizedErr.Error()})
	case stderrors.As(err, &unknownErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": unknownErr.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again."})
	}
}
