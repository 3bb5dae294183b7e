package api

import (
	"net/http"

	"campstock/internal/auth"
	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

// TokenResponse is the login response body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges form-encoded credentials for a bearer token
func (s *Server) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username and password required"})
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"detail": "User account is disabled"})
		return
	}

	token, err := s.tokens.CreateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// RegisterRequest is the new-account request body
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	PropertyID *uint  `json:"property_id"`
}

// Register creates a new user account
func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not hash password"})
		return
	}

	role := req.Role
	if role == "" {
		role = string(models.RoleCampWorker)
	}

	user := models.User{
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       req.FullName,
		Role:           role,
		PropertyID:     req.PropertyID,
		IsActive:       true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetMe returns the current user with their property
func (s *Server) GetMe(c *gin.Context) {
	user := currentUser(c)
	if user.PropertyID != nil {
		var property models.Property
		if err := s.db.Where("id = ?", *user.PropertyID).First(&property).Error; err == nil {
			user.Property = &property
		}
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMeRequest carries profile changes for the current user
type UpdateMeRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

// UpdateMe updates the current user's profile
func (s *Server) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user := currentUser(c)
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not hash password"})
			return
		}
		user.HashedPassword = hash
	}

	if err := s.db.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
