package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AccessErrorBadInput          = "ACCESS_BAD_INPUT"
	AccessErrorManifestNotFound  = "ACCESS_MANIFEST_NOT_FOUND"
	AccessErrorPluginNotFound    = "ACCESS_PLUGIN_NOT_FOUND"
	AccessErrorUnsupported       = "ACCESS_CAPABILITY_UNSUPPORTED"
	AccessErrorSharedBlocked     = "ACCESS_SHARED_ACCOUNT_BLOCKED"
	AccessErrorInvalidTransition = "ACCESS_INVALID_STATUS_TRANSITION"
	AccessErrorOperationFailed   = "ACCESS_PROVIDER_OPERATION_FAILED"
	AccessErrorPamConfigInvalid  = "ACCESS_PAM_CONFIG_INVALID"
	AccessErrorInternal          = "ACCESS_INTERNAL_ERROR"
)

func accessErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAccessErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrManifestNotFound):
		return newAccessError(err.Error(), goerrors.CategoryNotFound, AccessErrorManifestNotFound)
	case errors.Is(err, ErrPluginNotFound):
		return newAccessError(err.Error(), goerrors.CategoryNotFound, AccessErrorPluginNotFound)
	case errors.Is(err, ErrInvalidPamConfig),
		errors.Is(err, ErrInvalidPamOwnership),
		errors.Is(err, ErrInvalidPamGrantMethod),
		errors.Is(err, ErrInvalidRotationPolicy),
		errors.Is(err, ErrInvalidCheckoutPolicy):
		return newAccessError(err.Error(), goerrors.CategoryBadInput, AccessErrorPamConfigInvalid)
	case errors.Is(err, ErrInvalidAccessItemStatusTransition):
		return newAccessError(err.Error(), goerrors.CategoryConflict, AccessErrorInvalidTransition)
	case errors.Is(err, ErrInvalidAccessItemType):
		return newAccessError(err.Error(), goerrors.CategoryBadInput, AccessErrorBadInput)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "shared_account"):
		return newAccessError(err.Error(), goerrors.CategoryOperation, AccessErrorSharedBlocked)
	case strings.Contains(msg, "not supported"):
		return newAccessError(err.Error(), goerrors.CategoryOperation, AccessErrorUnsupported)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newAccessError(err.Error(), goerrors.CategoryBadInput, AccessErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAccessErrorEnvelope(mapped)
}

func newAccessError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAccessErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureAccessErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = accessHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAccessTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAccessTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AccessErrorBadInput
	case goerrors.CategoryNotFound:
		return AccessErrorManifestNotFound
	case goerrors.CategoryConflict:
		return AccessErrorInvalidTransition
	case goerrors.CategoryOperation:
		return AccessErrorUnsupported
	default:
		return AccessErrorInternal
	}
}

func accessHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
