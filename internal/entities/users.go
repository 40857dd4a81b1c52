package entities

import "time"

type PrivilegeLevel string

const (
	PrivilegeLevelStandard PrivilegeLevel = "standard"
	PrivilegeLevelAdmin    PrivilegeLevel = "admin"
)

type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword string         `gorm:"type:text;not null" json:"-"`
	Name           string         `gorm:"size:255" json:"name,omitempty"`
	PrivilegeLevel PrivilegeLevel `gorm:"size:50" json:"privilege_level"`
	CreatedAt      time.Time      `json:"created_at"`
	LastLogin      *time.Time     `json:"last_login,omitempty"`
	SessionInfo    string         `gorm:"type:text" json:"-"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	Username  string    `gorm:"not null" json:"username"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
