package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// AddToLogMessage appends one line to a per-request log message builder.
func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {
	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";\n")
}

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent at this point, nothing left but to log.
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// RespondError sends a {"message": ...} error response and records it on the
// request log builder when one is provided.
func RespondError(w http.ResponseWriter, logger *strings.Builder, message string, status int) {
	if logger != nil {
		AddToLogMessage(logger, message)
	} else {
		fmt.Println("[Error]", message)
	}
	RespondJSON(w, status, map[string]string{"message": message})
}

// RespondValidationError is RespondError with a structured details list, used
// when several validation messages are collected for one failure.
func RespondValidationError(w http.ResponseWriter, logger *strings.Builder, message string, details []string, status int) {
	if logger != nil {
		AddToLogMessage(logger, fmt.Sprintf("%s: %s", message, strings.Join(details, ", ")))
	}
	RespondJSON(w, status, map[string]interface{}{"message": message, "details": details})
}
