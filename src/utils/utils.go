package utils

import (
	"encoding/json"
	"math"
	"net/http"
)

// JSONErrorResponse is the standard error payload returned to the frontend.
type JSONErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// SendJSONError writes a JSON error response with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(JSONErrorResponse{Error: message})
}

// SendJSONErrorWithDetails writes a JSON error response carrying a structured
// details payload, e.g. the missing columns of a rejected CSV.
func SendJSONErrorWithDetails(w http.ResponseWriter, message string, details interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(JSONErrorResponse{Error: message, Details: details})
}

// RoundFloat rounds a value to the given number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// RoundPtr rounds through a pointer, preserving nil for absent values.
func RoundPtr(val *float64, precision uint) *float64 {
	if val == nil {
		return nil
	}
	r := RoundFloat(*val, precision)
	return &r
}
