package rest

import (
	"errors"
	"net/http"
	"os"

	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/pkg/generator"
	qr "github.com/Badsnus/qrlabels/pkg/qrcode"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

// toHTTPStatus maps domain errors to a status and an error code.
func toHTTPStatus(err error) (int, Code) {
	switch {
	case errors.Is(err, labels.ErrNoEntries),
		errors.Is(err, labels.ErrInvalidTemplate),
		errors.Is(err, labels.ErrPageOutOfRange),
		errors.Is(err, errorz.ErrInvalidRequest),
		errors.Is(err, qr.ErrEmptyContent),
		errors.Is(err, generator.ErrInvalidID):
		return http.StatusBadRequest, CodeInvalidArgument
	case errors.Is(err, labels.ErrUnknownTemplate),
		errors.Is(err, errorz.ErrJobNotFound),
		errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
