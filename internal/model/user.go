package model

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPERADMIN"
)

// IsAdminRole reports whether the role carries administrative rights.
func (r UserRole) IsAdminRole() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// swagger:model User
type User struct {
	BaseModel
	TelegramID  string       `gorm:"size:64;unique;not null" json:"telegramId"`
	Username    string       `gorm:"size:100;unique;not null" json:"username"`
	FirstName   string       `gorm:"size:100" json:"firstName"`
	LastName    string       `gorm:"size:100" json:"lastName"`
	Role        UserRole     `gorm:"size:20;not null;default:'USER'" json:"role"`
	Password    string       `gorm:"size:100" json:"-"`
	Permissions []Permission `gorm:"many2many:user_permissions" json:"permissions"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdminRole()
}

func (u *User) HasPermission(permissionID string) bool {
	for _, p := range u.Permissions {
		if p.ID == permissionID {
			return true
		}
	}
	return false
}
