package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin        UserRole = "ADMIN"
	RoleCoordinator  UserRole = "COORDINADOR"
	RoleTeacher      UserRole = "MAESTRO"
	RoleStudent      UserRole = "ESTUDIANTE"
	RoleAreaDirector UserRole = "DIRECTOR_DE_AREA"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
