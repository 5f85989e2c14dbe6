package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/01moynul/shopsphere-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

const invalidDataMessage = "The given data was invalid."

// respondError maps catalog error kinds to HTTP statuses. Unknown errors are logged
// and answered with a generic 500 so internals never reach the client.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var (
		validationErr *catalog.ValidationError
		notFoundErr   *catalog.NotFoundError
		sortErr       *catalog.SortColumnError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalidDataMessage, "fields": validationErr.Fields})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s not found", notFoundErr.Resource)})
	case errors.As(err, &sortErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": sortErr.Error(), "allowed": sortErr.Allowed})
	default:
		_ = c.Error(err)
		reqLog := middleware.LoggerFrom(c, h.Log)
		reqLog.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// respondBindError answers a body that could not be decoded. Type mismatches on a
// known field are validation failures; anything else is a malformed request.
func respondBindError(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  invalidDataMessage,
			"fields": map[string]string{typeErr.Field: typeReason(typeErr.Type)},
		})
	case errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is required"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
	}
}

// parseID reads the :id path parameter. A non-numeric id cannot match any record,
// so it is answered as not found.
func parseID(c *gin.Context, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
		return 0, false
	}
	return id, true
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func typeReason(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.String:
		return "must be a string"
	case reflect.Slice, reflect.Array:
		return "must be a list"
	case reflect.Struct, reflect.Map:
		return "must be an object"
	default:
		return "has an invalid type"
	}
}
