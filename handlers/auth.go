package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard/models"
	"jobboard/services"
	"jobboard/utils"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName"`
	VATNumber   string `json:"vatNumber"`
}

// Login authenticates against the CMS and activates the session
func Login(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestError(c, "Invalid request data: "+err.Error(), nil)
			return
		}

		result, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "Login successful", result)
	}
}

// Register creates the account plus its role profile and signs the user in
func Register(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestError(c, "Invalid request data: "+err.Error(), nil)
			return
		}

		result, err := auth.Register(c.Request.Context(), services.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			Role:      models.Role(req.Role),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Company:   req.CompanyName,
			VATNumber: req.VATNumber,
		})
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusCreated, "Registration successful", result)
	}
}

// RestoreSession rehydrates a persisted session, if a valid one exists
func RestoreSession(sessions *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.Restore(c.Request.Context())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if session == nil {
			utils.UnauthorizedError(c, "No active session")
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "Session restored", session)
	}
}

// Logout tears the session down; always succeeds
func Logout(sessions *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.Logout()
		utils.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
	}
}

// SessionMiddleware guards authenticated routes. An expired token tears the
// session down before rejecting, so the next restore starts clean.
func SessionMiddleware(sessions *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsAuthenticated() {
			utils.UnauthorizedError(c, "Sign in to access this resource")
			c.Abort()
			return
		}

		if services.TokenExpired(sessions.Token(), time.Now()) {
			sessions.Logout()
			utils.UnauthorizedError(c, "Your session has expired, please sign in again")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole rejects sessions whose resolved role does not match
func RequireRole(sessions *services.SessionStore, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Current()
		if session == nil || session.Role != role {
			utils.ForbiddenError(c, "This area is reserved for "+string(role)+" accounts")
			c.Abort()
			return
		}
		c.Next()
	}
}
