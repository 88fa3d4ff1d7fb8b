package rpc

import (
	"errors"
	"net/http"

	"github.com/Wxl-c137/blindmarker/internal/diskguard"
	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/structcodec"
	"github.com/Wxl-c137/blindmarker/internal/watermarkcrypto"
)

// taxonomyFor maps a job-setup-time error to §7's categorical taxonomy
// and the HTTP status that best fits it. Per-file errors never reach
// here: those are logged and tallied, not surfaced as request failures.
func taxonomyFor(err error) (status int, code string) {
	switch {
	case errors.Is(err, model.ErrMissingArchive),
		errors.Is(err, model.ErrInvalidEncodingMode),
		errors.Is(err, model.ErrMissingAESKey),
		errors.Is(err, model.ErrNoTypeSelected),
		errors.Is(err, model.ErrEmptyPayload):
		return http.StatusBadRequest, "InputValidation"

	case errors.Is(err, model.ErrPathTraversal),
		errors.Is(err, model.ErrArchiveTooLarge),
		errors.Is(err, model.ErrTooManyEntries),
		errors.Is(err, model.ErrUnsupportedArchive):
		return http.StatusUnprocessableEntity, "ArchiveError"

	case errors.Is(err, structcodec.ErrInvalidJSON),
		errors.Is(err, structcodec.ErrInvalidUTF8):
		return http.StatusUnprocessableEntity, "PayloadError"

	case errors.Is(err, watermarkcrypto.ErrMalformedBase64),
		errors.Is(err, watermarkcrypto.ErrTagMismatch):
		return http.StatusUnprocessableEntity, "CryptoError"

	case errors.Is(err, diskguard.ErrInsufficientSpace):
		return http.StatusInsufficientStorage, "ArchiveError"

	default:
		return http.StatusInternalServerError, "Other"
	}
}
