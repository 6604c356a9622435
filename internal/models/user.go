package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleSchoolAdmin  Role = "SCHOOL_ADMIN"
	RoleVehicleOwner Role = "VEHICLE_OWNER"
	RoleGateStaff    Role = "GATE_STAFF"
	RoleDriver       Role = "DRIVER"
	RoleParent       Role = "PARENT"
)

// User represents a user account. SchoolID scopes school staff and
// parents to their tenant; admins and vehicle owners leave it empty.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	SchoolID     string             `bson:"school_id,omitempty" json:"school_id,omitempty"`
	FirstName    string             `bson:"first_name" json:"first_name"`
	LastName     string             `bson:"last_name" json:"last_name"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	SchoolID  string `json:"school_id,omitempty"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleSchoolAdmin, RoleVehicleOwner, RoleGateStaff, RoleDriver, RoleParent:
		return true
	default:
		return false
	}
}

// HasPermission checks if a user has permission for a specific action
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleSchoolAdmin:
		return action != "manage_users"
	case RoleVehicleOwner:
		return action == "request_assignment" || action == "view_vehicles" ||
			action == "view_trips" || action == "view_dispatch_logs"
	case RoleGateStaff:
		return action == "log_dispatch_event" || action == "view_trips" ||
			action == "view_dispatch_logs"
	case RoleDriver:
		return action == "log_dispatch_event" || action == "view_trips"
	case RoleParent:
		return action == "view_trips" || action == "view_dispatch_logs"
	default:
		return false
	}
}
