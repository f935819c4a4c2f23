package httpx

import (
	"encoding/json"
	"net/http"
)

// Client-facing error messages. Internal error text never reaches the response.
const (
	MsgInternal        = "Internal Server Error"
	MsgUnavailable     = "Service Unavailable"
	MsgTooManyRequests = "Too many requests, please try again later."
	MsgFieldsRequired  = "All fields are required"
	MsgInvalidID       = "Invalid transaction ID"
	MsgNotFound        = "Transaction not found"
	MsgInvalidBody     = "Invalid request body"
)

type APIError struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIError{Error: msg})
}
