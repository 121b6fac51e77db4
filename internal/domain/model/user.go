package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User rows are seed data; the service reads them and never writes them.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Not exposed
	Role         string `json:"role"`
}
