package models

import "time"

// Roles carried in the token claims.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// StaffRoles lists every role that counts as floor staff.
var StaffRoles = []string{RoleStaff, RoleAdmin}

// IsStaffRole is the single staff predicate. Request scoping, the
// acknowledgement assignment rule and the staff fan-out all go through it.
func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleCustomer || IsStaffRole(role)
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(50);not null;default:'customer';index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsStaff reports whether the user holds a staff role.
func (u User) IsStaff() bool {
	return IsStaffRole(u.Role)
}
