// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package validation provides struct validation using
// go-playground/validator v10: a thread-safe singleton instance with custom
// validators for NHL team codes, season labels, and game dates.
//
//	type AdvancedRequest struct {
//	    Team   string `validate:"required,nhlteam"`
//	    Window int    `validate:"min=1,max=82"`
//	}
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var (
	seasonRe   = regexp.MustCompile(`^\d{8}$`)
	gameDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var nhlTeamCodes = map[string]bool{
	"ANA": true, "BOS": true, "BUF": true, "CAR": true, "CBJ": true,
	"CGY": true, "CHI": true, "COL": true, "DAL": true, "DET": true,
	"EDM": true, "FLA": true, "LAK": true, "MIN": true, "MTL": true,
	"NJD": true, "NSH": true, "NYI": true, "NYR": true, "OTT": true,
	"PHI": true, "PIT": true, "SEA": true, "SJS": true, "STL": true,
	"TBL": true, "TOR": true, "UTA": true, "VAN": true, "VGK": true,
	"WPG": true, "WSH": true,
}

// GetValidator returns the singleton validator. Initialization registers the
// domain validators; struct metadata is cached by the library.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// nhlteam: three-letter team abbreviation, case-insensitive.
		_ = validate.RegisterValidation("nhlteam", func(fl validator.FieldLevel) bool {
			return nhlTeamCodes[strings.ToUpper(fl.Field().String())]
		})

		// nhlseason: eight digits, e.g. 20252026.
		_ = validate.RegisterValidation("nhlseason", func(fl validator.FieldLevel) bool {
			return seasonRe.MatchString(fl.Field().String())
		})

		// gamedate: YYYY-MM-DD.
		_ = validate.RegisterValidation("gamedate", func(fl validator.FieldLevel) bool {
			return gameDateRe.MatchString(fl.Field().String())
		})
	})

	return validate
}

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Param   string      `json:"param,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

func (e FieldError) Error() string { return e.Message }

// RequestError aggregates the field failures for one request.
type RequestError struct {
	Fields []FieldError
}

func (ve *RequestError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Fields))
	for i, fe := range ve.Fields {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// Details returns the structure embedded in the error envelope's details.
func (ve *RequestError) Details() interface{} {
	return map[string]interface{}{"fields": ve.Fields}
}

// ValidateStruct validates s with the singleton validator. Returns nil on
// success, a *RequestError otherwise.
func ValidateStruct(s interface{}) *RequestError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestError{Fields: []FieldError{{
			Field: "unknown", Tag: "unknown", Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translate(fe),
		}
	}
	return &RequestError{Fields: fields}
}

var messageTemplates = map[string]string{
	"required":  "%s is required",
	"nhlteam":   "%s must be a valid NHL team code",
	"nhlseason": "%s must be an eight-digit season, e.g. 20252026",
	"gamedate":  "%s must be a date in YYYY-MM-DD form",
}

var messageTemplatesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError) string {
	if template, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field())
	}
	if template, ok := messageTemplatesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
