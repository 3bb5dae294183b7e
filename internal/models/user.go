package models

import "time"

// UserRole represents the access level of a user
type UserRole string

const (
	RoleAdmin                UserRole = "admin"
	RoleCampWorker           UserRole = "camp_worker"
	RolePurchasingSupervisor UserRole = "purchasing_supervisor"
	RolePurchasingTeam       UserRole = "purchasing_team"
)

// User represents an account in the purchasing system.
// Camp workers are assigned to a single property; purchasing roles
// and admins can see every property.
type User struct {
	ID             uint       `gorm:"primary_key" json:"id"`
	Email          string     `gorm:"type:varchar(255);unique_index;not null" json:"email"`
	HashedPassword string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string     `gorm:"type:varchar(255)" json:"full_name"`
	Role           string     `gorm:"type:varchar(50);not null;default:'camp_worker'" json:"role"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	PropertyID     *uint      `json:"property_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `sql:"index" json:"-"`

	Property *Property `gorm:"foreignkey:PropertyID" json:"property,omitempty"`
}

// TableName sets the table name for User
func (User) TableName() string {
	return "users"
}

// DisplayName returns the full name, falling back to the email address
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
