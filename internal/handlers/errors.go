package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/types"
	"github.com/shram-daan/shramdaan/internal/utils"
)

// respondError writes the status and body for err. resource names the entity
// in not-found messages. Unexpected errors are logged and hidden.
func (h *Handler) respondError(ctx *gin.Context, err error, resource string) {
	var validation *types.ValidationError

	switch {
	case errors.As(err, &validation):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": validation.Errors})
	case errors.Is(err, utils.ErrNotAuthenticated):
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
	case errors.Is(err, types.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Only the organizer can change this project"})
	case errors.Is(err, types.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"message": resource + " not found"})
	case errors.Is(err, types.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"message": "Already registered for this project"})
	case errors.Is(err, types.ErrCapacityExceeded):
		ctx.JSON(http.StatusConflict, gin.H{"message": "Project is at full capacity"})
	default:
		_ = ctx.Error(err)
		h.log.Error().Err(err).Str("method", ctx.Request.Method).Str("path", ctx.FullPath()).Msg("request failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// badRequest answers a body that failed to decode into dst. Values of the
// wrong type are reported per field like any other validation failure.
func (h *Handler) badRequest(ctx *gin.Context, err error, dst interface{}) {
	h.log.Debug().Err(err).Msg("failed to bind request body")

	if validation := bindError(err, dst); validation != nil {
		h.respondError(ctx, validation, "")
		return
	}

	ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}

func bindError(err error, dst interface{}) *types.ValidationError {
	var (
		typeErr  *json.UnmarshalTypeError
		parseErr *time.ParseError
	)

	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return types.NewValidationError(typeErr.Field, typeMessage(typeErr.Type))
	case errors.As(err, &parseErr):
		return types.NewValidationError(timeField(dst), "must be an RFC 3339 date-time")
	default:
		return nil
	}
}

func typeMessage(t reflect.Type) string {
	if t == nil {
		return "has an invalid type"
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be a boolean"
	default:
		return "has an invalid type"
	}
}

var timeType = reflect.TypeOf(time.Time{})

// timeField names the date-time field of dst. The decoder does not report
// which field a time failed to parse in, so bodies with several time fields
// fall back to "body".
func timeField(dst interface{}) string {
	t := reflect.TypeOf(dst)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "body"
	}

	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft != timeType {
			continue
		}

		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}

	if len(names) != 1 {
		return "body"
	}

	return names[0]
}
