package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eternal-365/educonnect/internal/auth"
	"github.com/eternal-365/educonnect/internal/common"
	"github.com/eternal-365/educonnect/internal/email"
	"github.com/eternal-365/educonnect/internal/httpapi/middleware"
	"github.com/eternal-365/educonnect/internal/users"
)

type registerReq struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	UserType     string `json:"userType"`
	StudentID    string `json:"studentId"`
	StudentClass int    `json:"studentClass"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" || req.UserType == "" {
		common.Fail(c, http.StatusBadRequest, "email, password, name, and user type are required")
		return
	}
	if req.UserType != users.TypeStudent && req.UserType != users.TypeParent {
		common.Fail(c, http.StatusBadRequest, "user type must be student or parent")
		return
	}

	u, err := h.Users.Register(c.Request.Context(), users.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		UserType:     req.UserType,
		StudentID:    req.StudentID,
		StudentClass: req.StudentClass,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			common.Fail(c, http.StatusConflict, "user already exists with this email")
			return
		}
		log.Printf("[Register] email=%s err=%v", req.Email, err)
		common.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := auth.SignToken(u.ID, u.Email, u.UserType, u.Name, h.Cfg.JWTSecret, auth.TokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "failed to sign token")
		return
	}

	if h.SMTPSetting.Host != "" {
		go func(to, name string) {
			subject := "Welcome to EduConnect: your account is ready"
			body := "Hello " + name + ",\n\n" +
				"Welcome to EduConnect. Your account has been successfully created.\n\n" +
				"If you did not request this account, please contact our support immediately.\n\n" +
				"Best regards,\n" +
				"EduConnect\n"
			_ = email.SendText(h.SMTPSetting, to, subject, body)
		}(u.Email, u.Name)
	}

	common.Created(c, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    u,
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		common.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.Users.Login(c.Request.Context(), req.Email, req.Password, req.UserType)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrRoleMismatch):
			common.Fail(c, http.StatusUnauthorized, "account is not a "+req.UserType+" account")
		case errors.Is(err, users.ErrInvalidCredentials):
			common.Fail(c, http.StatusUnauthorized, "invalid email or password")
		default:
			log.Printf("[Login] email=%s err=%v", req.Email, err)
			common.Fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	token, err := auth.SignToken(u.ID, u.Email, u.UserType, u.Name, h.Cfg.JWTSecret, auth.TokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    u,
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Users.GetProfile(c.Request.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	common.OK(c, gin.H{"user": u})
}

type updateProfileReq struct {
	Name         *string `json:"name"`
	StudentClass *int    `json:"studentClass"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	u, err := h.Users.UpdateProfile(c.Request.Context(), claims.Email, users.UpdateProfileInput{
		Name:         req.Name,
		StudentClass: req.StudentClass,
	})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, "user not found or no changes made")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	common.OK(c, gin.H{
		"message": "Profile updated successfully",
		"user":    u,
	})
}

// ListStudents feeds the parent dashboard.
func (h *Handler) ListStudents(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	if claims.UserType != users.TypeParent {
		common.Fail(c, http.StatusForbidden, "access denied, parent accounts only")
		return
	}

	students, err := h.Users.ListStudents(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "failed to fetch students")
		return
	}

	common.OK(c, gin.H{"students": students})
}
