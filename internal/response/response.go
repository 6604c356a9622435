package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, body Envelope) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(body)
}

// OK writes a successful 200 response
func OK(w http.ResponseWriter, message string, data interface{}) error {
	return WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, message string, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// BadRequest writes a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: message})
}

// NotFound writes a 404 Not Found response
func NotFound(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusNotFound, Envelope{Success: false, Message: message})
}

// Conflict writes a 409 Conflict response
func Conflict(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusConflict, Envelope{Success: false, Message: message})
}

// InternalServerError writes a 500 Internal Server Error response
func InternalServerError(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: message})
}
