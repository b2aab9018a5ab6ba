package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/server/http/dto"
	"github.com/PhamQuy48/storefront/internal/server/http/middleware"
)

// CurrentIdentity extracts authenticated caller from context.
func CurrentIdentity(c *gin.Context) model.Identity {
	val, ok := c.Get(middleware.IdentityContextKey)
	if !ok {
		return model.Identity{}
	}
	identity, _ := val.(model.Identity)
	return identity
}

// writeError translates domain errors into HTTP responses.
func writeError(c *gin.Context, err error) {
	var validation *domainErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: validation.Reason, Field: validation.Field})
	case errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case domainErrors.IsVoucherRejection(err):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error(), Field: "voucherCode"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, field, reason string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: reason, Field: field})
}

func parseUUID(c *gin.Context, raw, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, field, "must be a valid id")
		return uuid.Nil, false
	}
	return id, true
}

// parseLimit reads ?limit; zero lets the use case pick its default.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		badRequest(c, "limit", "must be a non-negative integer")
		return 0, false
	}
	return limit, true
}
