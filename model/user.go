package model

type UserRole string

const (
	Admin  UserRole = "admin"
	Member UserRole = "user"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Email    string   `json:"email" gorm:"size:100;not null;uniqueIndex"`
	Password string   `json:"-" gorm:"size:100;not null"`
	Name     string   `json:"name" gorm:"size:1000;not null"`
	Role     UserRole `json:"role" gorm:"size:16;not null;default:user"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == Admin
}
