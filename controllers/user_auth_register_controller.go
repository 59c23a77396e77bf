package controllers

import (
	"time"

	"github.com/tanvir-hs/CourseDeck/config"
	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/tanvir-hs/CourseDeck/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Institution     string `json:"institution"`
}

// RegistrationData represents the registration data stored in session while
// the email is being verified
type RegistrationData struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
	OTP         string `json:"otp"`
	OTPExpires  int64  `json:"otp_expires"`
}

// RegisterUser handles user registration. The account is not created until
// the emailed OTP is verified.
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please check your input data and ensure all required fields are provided correctly.")
		return
	}

	utils.LogInfo("Registration attempt for email: %s, username: %s", req.Email, req.Username)

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.LogError("Registration attempt failed - Invalid username: %s - %s", req.Username, msg)
		utils.BadRequest(c, "Invalid username", msg)
		return
	}

	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.LogError("Registration attempt failed - Invalid email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid email", msg)
		return
	}

	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.LogError("Registration attempt failed - Invalid password for email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid password", msg)
		return
	}

	if req.Password != req.ConfirmPassword {
		utils.LogError("Registration attempt failed - Passwords do not match for email: %s", req.Email)
		utils.BadRequest(c, "Passwords do not match", "Password and confirm password must be the same.")
		return
	}

	if req.FirstName != "" {
		if valid, msg := utils.ValidateName(req.FirstName); !valid {
			utils.LogError("Registration attempt failed - Invalid first name: %s - %s", req.FirstName, msg)
			utils.BadRequest(c, "Invalid first name", msg)
			return
		}
	}

	if req.LastName != "" {
		if valid, msg := utils.ValidateName(req.LastName); !valid {
			utils.LogError("Registration attempt failed - Invalid last name: %s - %s", req.LastName, msg)
			utils.BadRequest(c, "Invalid last name", msg)
			return
		}
	}

	if req.Phone != "" {
		valid, formattedPhone := utils.ValidatePhone(req.Phone)
		if !valid {
			utils.LogError("Registration attempt failed - Invalid phone: %s - %s", req.Phone, formattedPhone)
			utils.BadRequest(c, "Invalid phone", formattedPhone)
			return
		}
		req.Phone = formattedPhone
	}

	var existingUser models.User
	if err := config.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		utils.LogError("Registration attempt failed - Username already exists: %s", req.Username)
		utils.Conflict(c, "Username already exists", "The username you've chosen is already taken. Please choose a different username.")
		return
	}

	if err := config.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.LogError("Registration attempt failed - Email already exists: %s", req.Email)
		utils.Conflict(c, "Email already exists", "An account with this email address already exists. Please use a different email or try logging in.")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Registration attempt failed - Password hashing error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process password", nil)
		return
	}

	otp := utils.GenerateOTP()
	otpExpiry := time.Now().Add(utils.OTPValidity).Unix()

	regData := RegistrationData{
		Username:    req.Username,
		Email:       req.Email,
		Password:    hashedPassword,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Institution: req.Institution,
		OTP:         otp,
		OTPExpires:  otpExpiry,
	}

	session := sessions.Default(c)
	session.Set("registration_data", regData)
	if err := session.Save(); err != nil {
		utils.LogError("Registration attempt failed - Session save error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to save session", nil)
		return
	}

	utils.LogInfo("Sending registration OTP to email: %s", req.Email)
	if err := utils.SendOTP(req.Email, otp); err != nil {
		utils.LogError("Registration attempt failed - OTP email error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification email", nil)
		return
	}

	utils.LogInfo("Registration OTP sent successfully to email: %s", req.Email)
	utils.Success(c, "OTP sent to your email. Please verify to complete registration.", gin.H{
		"email":      req.Email,
		"expires_in": int(utils.OTPValidity.Seconds()),
	})
}

// VerifyOTPRequest represents the OTP verification payload
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyRegistrationOTP completes registration after the emailed code is
// confirmed
func VerifyRegistrationOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("OTP verification failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	session := sessions.Default(c)
	regVal := session.Get("registration_data")
	if regVal == nil {
		utils.LogError("OTP verification failed - No pending registration for email: %s", req.Email)
		utils.BadRequest(c, "No pending registration found. Please register again.", nil)
		return
	}

	regData, ok := regVal.(RegistrationData)
	if !ok || regData.Email != req.Email {
		utils.LogError("OTP verification failed - Session mismatch for email: %s", req.Email)
		utils.BadRequest(c, "No pending registration found. Please register again.", nil)
		return
	}

	if time.Now().Unix() > regData.OTPExpires {
		utils.LogError("OTP verification failed - OTP expired for email: %s", req.Email)
		utils.BadRequest(c, "OTP has expired. Please request a new one.", nil)
		return
	}

	if regData.OTP != req.OTP {
		utils.LogError("OTP verification failed - Wrong OTP for email: %s", req.Email)
		utils.BadRequest(c, "Invalid OTP. Please try again.", nil)
		return
	}

	user := models.User{
		Username:    regData.Username,
		Email:       regData.Email,
		Password:    regData.Password,
		FirstName:   regData.FirstName,
		LastName:    regData.LastName,
		Phone:       regData.Phone,
		Institution: regData.Institution,
		IsVerified:  true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("OTP verification failed - User creation error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	session.Delete("registration_data")
	_ = session.Save()

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Token generation failed after registration for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("Registration completed for email: %s (user ID: %d)", user.Email, user.ID)
	utils.Created(c, "Registration successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// ResendOTPRequest identifies the pending registration
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendRegistrationOTP issues a fresh code for a pending registration
func ResendRegistrationOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("OTP resend failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	session := sessions.Default(c)
	regVal := session.Get("registration_data")
	if regVal == nil {
		utils.LogError("OTP resend failed - No pending registration for email: %s", req.Email)
		utils.BadRequest(c, "No pending registration found. Please register again.", nil)
		return
	}

	regData, ok := regVal.(RegistrationData)
	if !ok || regData.Email != req.Email {
		utils.LogError("OTP resend failed - Session mismatch for email: %s", req.Email)
		utils.BadRequest(c, "No pending registration found. Please register again.", nil)
		return
	}

	regData.OTP = utils.GenerateOTP()
	regData.OTPExpires = time.Now().Add(utils.OTPValidity).Unix()

	session.Set("registration_data", regData)
	if err := session.Save(); err != nil {
		utils.LogError("OTP resend failed - Session save error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to save session", nil)
		return
	}

	if err := utils.SendOTP(req.Email, regData.OTP); err != nil {
		utils.LogError("OTP resend failed - Email error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification email", nil)
		return
	}

	utils.LogInfo("Registration OTP resent to email: %s", req.Email)
	utils.Success(c, "A new OTP has been sent to your email.", gin.H{
		"email":      req.Email,
		"expires_in": int(utils.OTPValidity.Seconds()),
	})
}
