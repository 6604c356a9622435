package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ukydev/school-transit/internal/response"
	"github.com/ukydev/school-transit/internal/service"
)

var validate = validator.New()

// decodeAndValidate decodes a JSON body into dst and runs struct
// validation; a false return means the error response was written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}

// respondServiceError maps the service error taxonomy onto the response
// envelope: NotFound -> 404, Conflict -> 409, anything else -> 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsNotFound(err):
		response.NotFound(w, err.Error())
	case service.IsConflict(err):
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, err.Error())
	}
}
