package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/himashiprops/estate-backend/config"
	"github.com/himashiprops/estate-backend/otp"
	"github.com/himashiprops/estate-backend/utils"
)

// AdminLoginHandler sends the admin login OTP. Only the configured admin
// email is accepted.
func (h *AuthHandler) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Admin Login API]")

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		utils.RespondError(w, &logMessageBuilder, "Email required", http.StatusBadRequest)
		return
	}
	if config.AdminEmail == "" || req.Email != config.AdminEmail {
		utils.RespondError(w, &logMessageBuilder, "Invalid admin email", http.StatusUnauthorized)
		return
	}

	code, err := otp.GenerateCode(6)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate OTP", http.StatusInternalServerError)
		return
	}
	key := otp.AdminKey(req.Email)
	h.OTP.Set(key, code, otp.DefaultTTL)

	subject, text, html := utils.AdminOTPEmail(code, 5)
	if _, err := utils.SendEmail("Admin", config.AdminEmail, subject, text, html); err != nil {
		h.OTP.Delete(key)
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send email: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to send OTP email", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Admin OTP sent")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to admin email"})
}

// VerifyAdminOTPHandler confirms the admin code and issues an admin session
// token.
func (h *AuthHandler) VerifyAdminOTPHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Verify Admin OTP API]")

	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.OTP == "" {
		utils.RespondError(w, &logMessageBuilder, "Email and OTP required", http.StatusBadRequest)
		return
	}
	if config.AdminEmail == "" || req.Email != config.AdminEmail {
		utils.RespondError(w, &logMessageBuilder, "Invalid admin email", http.StatusUnauthorized)
		return
	}

	if !h.OTP.Verify(otp.AdminKey(req.Email), strings.TrimSpace(req.OTP)) {
		utils.RespondError(w, &logMessageBuilder, "Invalid or expired OTP", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken("admin", req.Email, "")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Admin login verified")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}
