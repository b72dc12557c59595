package auth

import "time"

type UserContext struct {
	UserID     string
	EmployeeID string
	Role       string
}

type AuthUser struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	EmployeeID   string
}

type Profile struct {
	UserID     string     `json:"userId"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	EmployeeID string     `json:"employeeId,omitempty"`
	FirstName  string     `json:"firstName,omitempty"`
	LastName   string     `json:"lastName,omitempty"`
	JobTitle   string     `json:"jobTitle,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Profile   Profile   `json:"profile"`
}
