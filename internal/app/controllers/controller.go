// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
)

// principal returns the authenticated caller or writes a 401
func principal(ctx *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
	}
	return p, ok
}

// pathID parses a positive integer path parameter or writes a 400
func pathID(ctx *gin.Context, name, what string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+what+" ID").
			WithField(name).
			WithDetails(what + " ID must be a positive number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// optionalYear reads the "year" query parameter; absent means nil
func optionalYear(ctx *gin.Context) (*int, bool) {
	raw := ctx.Query("year")
	if raw == "" {
		return nil, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("year must be a number"))
		return nil, false
	}
	return &year, true
}

// parseDate parses an optional date field or writes a 400
func parseDate(ctx *gin.Context, field, raw string) (*time.Time, bool) {
	t, err := helpers.ParseOptionalDate(raw)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()).WithField(field)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return t, true
}

// optionalFile returns the uploaded part named field, nil when absent
func optionalFile(ctx *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := ctx.FormFile(field)
	if err == nil {
		return fh, true
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, true
	}
	middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("could not read uploaded file"))
	return nil, false
}
