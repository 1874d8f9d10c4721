package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/himashiprops/estate-backend/utils"
)

// recipientDisplayName derives a display name from the address local part,
// so delivered mail does not show the full address twice.
func recipientDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return ""
}

// SendAdminEmailHandler lets the admin send an arbitrary email through the
// configured provider. Every dispatch is audit logged by the mail layer.
func SendAdminEmailHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Send Admin Email API]")

	var body struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Text    string `json:"text"`
		HTML    string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	to := strings.TrimSpace(body.To)
	if to == "" || (strings.TrimSpace(body.Text) == "" && strings.TrimSpace(body.HTML) == "") {
		utils.RespondError(w, &logMessageBuilder, "Missing email fields", http.StatusBadRequest)
		return
	}

	messageID, err := utils.SendEmail(recipientDisplayName(to), to, body.Subject, body.Text, body.HTML)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Send failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to send email", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Email sent to %s", to))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Email sent",
		"id":       messageID,
		"accepted": []string{to},
		"rejected": []string{},
	})
}
