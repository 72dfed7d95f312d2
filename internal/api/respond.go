package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/store"
)

// Error is an API error with its HTTP status and machine-readable code.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func badRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: fmt.Sprintf(format, args...)}
}

// errorMapping translates domain sentinels into API errors.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{progress.ErrInvalidSelection, http.StatusBadRequest, "INVALID_SELECTION"},
	{progress.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{progress.ErrDuplicateInterest, http.StatusConflict, "DUPLICATE_INTEREST"},
	{progress.ErrNotAllComplete, http.StatusConflict, "NOT_ALL_COMPLETE"},
	{progress.ErrUnknownInterest, http.StatusNotFound, "UNKNOWN_INTEREST"},
	{progress.ErrUnknownStage, http.StatusNotFound, "UNKNOWN_STAGE"},
	{progress.ErrStageLocked, http.StatusForbidden, "STAGE_LOCKED"},
	{progress.ErrNoHearts, http.StatusConflict, "NO_HEARTS"},
	{progress.ErrNotReady, http.StatusServiceUnavailable, "NOT_READY"},
	{progress.ErrClosed, http.StatusServiceUnavailable, "NOT_READY"},
	{rewards.ErrUnknownGoodie, http.StatusNotFound, "UNKNOWN_GOODIE"},
	{rewards.ErrNotClaimable, http.StatusBadRequest, "NOT_CLAIMABLE"},
	{rewards.ErrNotUnlocked, http.StatusForbidden, "NOT_UNLOCKED"},
	{store.ErrAlreadyClaimed, http.StatusConflict, "ALREADY_CLAIMED"},
	{store.ErrEmptyIdentity, http.StatusBadRequest, "EMPTY_IDENTITY"},
}

// toAPIError returns the API form of err, or nil if err is unexpected.
func toAPIError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return &Error{Status: m.status, Code: m.code, Message: err.Error()}
		}
	}
	return nil
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError writes a JSON error response. Unrecognized errors become a
// generic 500 so internal details do not leak.
func RespondError(w http.ResponseWriter, err error) {
	if apiErr := toAPIError(err); apiErr != nil {
		RespondJSON(w, apiErr.Status, map[string]string{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		})
		return
	}
	RespondJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    "INTERNAL_ERROR",
		"message": "internal server error",
	})
}

// DecodeJSON reads and decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}
