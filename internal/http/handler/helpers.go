package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/master-items-admin/internal/http/middleware"
	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

var errInvalidID = errors.New("invalid id")

// mutationResult is the body of every successful create, update and delete.
type mutationResult struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func parsePathID(input string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(input), 10, 64)
	if err != nil || n == 0 {
		return 0, errInvalidID
	}
	return uint(n), nil
}

func formatID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func actorIDFromRequest(r *http.Request) string {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == 0 {
		return ""
	}
	return formatID(claims.UserID)
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// listParams reads the raw list parameters res understands.
func listParams(r *http.Request, res listing.Resource) listing.Params {
	return listing.ParseParams(r.URL.Query(), res)
}

func listEnvelope[T any](r *http.Request, idx service.Index[T], params listing.Params) listing.Envelope[T] {
	return listing.NewEnvelope(idx.Page, idx.Request, params, listing.RequestPath(r), r.URL.Query())
}

func recordList(r *http.Request, resource string, err error, perPage int, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordListRequest(r.Context(), resource, status, perPage, time.Since(start))
}

// writeServiceError maps service and repository errors onto the response
// envelope. Validation failures carry one message per field.
func writeServiceError(w http.ResponseWriter, r *http.Request, err, notFound error, entity, action string) {
	if ve, ok := service.IsValidationError(err); ok {
		response.Error(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "the given data was invalid", map[string]any{"fields": ve.Fields})
		return
	}
	if notFound != nil && errors.Is(err, notFound) {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", entity+" not found", nil)
		return
	}
	response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to "+action+" "+entity, nil)
}

func writeInvalidID(w http.ResponseWriter, r *http.Request, entity string) {
	response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid "+entity+" id", nil)
}

// writeInvalidPayload answers a body that could not be decoded. A field of
// the wrong JSON type is a validation failure on that field; anything else
// is a malformed request.
func writeInvalidPayload(w http.ResponseWriter, r *http.Request, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields := map[string]string{typeErr.Field: typeMismatchMessage(typeErr.Field, typeErr.Type)}
		response.Error(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "the given data was invalid", map[string]any{"fields": fields})
		return
	}
	response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
}

func typeMismatchMessage(field string, want reflect.Type) string {
	label := strings.ReplaceAll(field, "_", " ")
	for want != nil && want.Kind() == reflect.Pointer {
		want = want.Elem()
	}
	kind := reflect.Invalid
	if want != nil {
		kind = want.Kind()
	}
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("The %s field must be an integer.", label)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("The %s field must be a number.", label)
	case reflect.String:
		return fmt.Sprintf("The %s field must be a string.", label)
	case reflect.Bool:
		return fmt.Sprintf("The %s field must be true or false.", label)
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("The %s field must be an array.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
