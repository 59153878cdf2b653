package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pennypusher/pennypusher/internal/apperrors"
)

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode unmarshals a raw payload into the kind-specific request struct
// and validates it. Validation problems come back as
// apperrors.FieldErrors; malformed JSON as an ErrValidation AppError.
func Decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return apperrors.NewValidationFailedError("request data is missing")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.NewValidationFailedError("malformed request data: " + err.Error())
	}
	return Validate(v)
}

// Validate runs struct validation and converts failures into a
// field-level error map.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := apperrors.FieldErrors{}
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed '%s' validation", fe.Tag())
		}
		return fields
	}
	return apperrors.NewValidationFailedError(err.Error())
}

// PageParams carries page-number pagination query parameters. The default
// page size is 50, overridable via page_size.
type PageParams struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=50"`
}

// Clamp normalizes out-of-range pagination parameters.
func (p PageParams) Clamp() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 500 {
		p.PageSize = 50
	}
	return p
}

// LimitOffset translates the page parameters into SQL limit/offset.
func (p PageParams) LimitOffset() (int, int) {
	p = p.Clamp()
	return p.PageSize, (p.Page - 1) * p.PageSize
}

// PagedResponse is the envelope for paginated collections.
type PagedResponse struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Results  any   `json:"results"`
}

// NewPagedResponse builds the paginated envelope from clamped params.
func NewPagedResponse(count int64, params PageParams, results any) *PagedResponse {
	params = params.Clamp()
	return &PagedResponse{
		Count:    count,
		Page:     params.Page,
		PageSize: params.PageSize,
		Results:  results,
	}
}
