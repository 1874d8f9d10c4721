package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/himashiprops/estate-backend/models"
	"github.com/himashiprops/estate-backend/otp"
	"github.com/himashiprops/estate-backend/utils"
)

// AuthHandler carries the OTP table, which is owned by main and injected
// here rather than living as package state.
type AuthHandler struct {
	OTP *otp.Store
}

func NewAuthHandler(store *otp.Store) *AuthHandler {
	return &AuthHandler{OTP: store}
}

// SignupHandler registers a user and sends the signup OTP. An existing
// verified email is a conflict; an unverified one is overwritten so the
// signup can be retried.
func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Signup API]")

	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Phone == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Name, phone, email and password required", http.StatusBadRequest)
		return
	}

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	phone := normalizePhone(req.Phone)
	if name == "" {
		utils.RespondError(w, &logMessageBuilder, "Invalid name", http.StatusBadRequest)
		return
	}
	if len(phone) < 7 {
		utils.RespondError(w, &logMessageBuilder, "Invalid phone", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection := utils.GetCollection("users")

	var existing models.User
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	exists := err == nil
	if exists && existing.IsVerified {
		utils.RespondError(w, &logMessageBuilder, "User already exists", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	if exists {
		// Unverified leftover from an earlier attempt: overwrite it.
		_, err = collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{
			"name": name, "phone": phone, "password": string(hashed),
			"isVerified": false, "updatedAt": now,
		}})
	} else {
		_, err = collection.InsertOne(ctx, models.User{
			Name:      name,
			Email:     email,
			Phone:     phone,
			Password:  string(hashed),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create user", http.StatusInternalServerError)
		return
	}

	code, err := otp.GenerateCode(6)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate OTP", http.StatusInternalServerError)
		return
	}
	key := otp.SignupKey(email)
	h.OTP.Set(key, code, otp.DefaultTTL)

	subject, text, html := utils.UserOTPEmail(code, 5, "signup")
	if _, err := utils.SendEmail(name, email, subject, text, html); err != nil {
		h.OTP.Delete(key)
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send email: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to send OTP email", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Signup OTP sent")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "OTP sent for signup"})
}

// VerifySignupOTPHandler confirms the signup code, marks the user verified
// and issues a session token.
func (h *AuthHandler) VerifySignupOTPHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Verify Signup OTP API]")

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

	email := normalizeEmail(req.Email)
	if !h.OTP.Verify(otp.SignupKey(email), strings.TrimSpace(req.OTP)) {
		utils.RespondError(w, &logMessageBuilder, "Invalid or expired OTP", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := utils.GetCollection("users").FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"isVerified": true, "updatedAt": time.Now()}},
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateToken("user", email, user.ID.Hex())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Signup verified")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// LoginHandler checks credentials and sends the login OTP. Unknown email
// and wrong password get the same response; blocked and unverified accounts
// are refused outright.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Email and password required", http.StatusBadRequest)
		return
	}

	email := normalizeEmail(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := utils.GetCollection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	if user.IsBlocked {
		utils.RespondError(w, &logMessageBuilder, "Account blocked", http.StatusForbidden)
		return
	}
	if !user.IsVerified {
		utils.RespondError(w, &logMessageBuilder, "User not verified", http.StatusForbidden)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	code, err := otp.GenerateCode(6)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate OTP", http.StatusInternalServerError)
		return
	}
	key := otp.LoginKey(email)
	h.OTP.Set(key, code, otp.DefaultTTL)

	subject, text, html := utils.UserOTPEmail(code, 5, "login")
	if _, err := utils.SendEmail(user.Name, email, subject, text, html); err != nil {
		h.OTP.Delete(key)
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send email: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to send OTP email", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Login OTP sent")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "OTP sent for login"})
}

// VerifyLoginOTPHandler confirms the login code and issues a session token.
// The account state is re-checked: verification or block status may have
// changed since the code was issued.
func (h *AuthHandler) VerifyLoginOTPHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Verify Login OTP API]")

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

	email := normalizeEmail(req.Email)
	if !h.OTP.Verify(otp.LoginKey(email), strings.TrimSpace(req.OTP)) {
		utils.RespondError(w, &logMessageBuilder, "Invalid or expired OTP", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := utils.GetCollection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if user.IsBlocked {
		utils.RespondError(w, &logMessageBuilder, "Account blocked", http.StatusForbidden)
		return
	}
	if !user.IsVerified {
		utils.RespondError(w, &logMessageBuilder, "User not verified", http.StatusForbidden)
		return
	}

	token, err := utils.GenerateToken("user", email, user.ID.Hex())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Login verified")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}
