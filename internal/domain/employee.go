package domain

import "time"

const RoleSuperAdmin = "ROLE_SUPER_ADMIN"

type Company struct {
	ID        int64
	UUID      string
	Name      string
	CreatedAt time.Time
}

type Employee struct {
	ID        int64
	CompanyID int64
	Email     string
	FirstName string
	LastName  string
}
