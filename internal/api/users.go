package api

import (
	"net/http"

	"campstock/internal/auth"
	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

var validRoles = map[string]bool{
	string(models.RoleAdmin):                true,
	string(models.RoleCampWorker):           true,
	string(models.RolePurchasingSupervisor): true,
	string(models.RolePurchasingTeam):       true,
}

// ListUsers lists all accounts
func (s *Server) ListUsers(c *gin.Context) {
	var users []models.User
	s.db.Preload("Property").Order("email").Find(&users)
	c.JSON(http.StatusOK, users)
}

// GetUser returns one account
func (s *Server) GetUser(c *gin.Context) {
	var user models.User
	if err := s.db.Preload("Property").Where("id = ?", paramID(c, "id")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUserRequest is the admin account-creation body
type CreateUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"full_name"`
	Role       string `json:"role" binding:"required"`
	PropertyID *uint  `json:"property_id"`
}

// CreateUser creates an account with an explicit role
func (s *Server) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !validRoles[req.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid role"})
		return
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	user := models.User{
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       req.FullName,
		Role:           req.Role,
		PropertyID:     req.PropertyID,
		IsActive:       true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUserRequest carries the fields an admin may change on an account
type UpdateUserRequest struct {
	FullName   *string `json:"full_name"`
	Role       *string `json:"role"`
	PropertyID *uint   `json:"property_id"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateUser updates an account's role, property or active flag
func (s *Server) UpdateUser(c *gin.Context) {
	var user models.User
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if !validRoles[*req.Role] {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid role"})
			return
		}
		user.Role = *req.Role
	}
	if req.PropertyID != nil {
		user.PropertyID = req.PropertyID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser deactivates an account so it can no longer sign in
func (s *Server) DeleteUser(c *gin.Context) {
	current := currentUser(c)
	id := paramID(c, "id")
	if id == current.ID {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot delete your own account"})
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	if err := s.db.Model(&user).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetPasswordRequest carries the new password for an account
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetUserPassword lets an admin replace an account's password
func (s *Server) ResetUserPassword(c *gin.Context) {
	var user models.User
	if err := s.db.Where("id = ?", paramID(c, "id")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if err := s.db.Model(&user).Update("hashed_password", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}
