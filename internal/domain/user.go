package domain

import "time"

// User is a minimal account record. Authentication and OAuth token storage
// live outside this service; jobs only need the row to exist so that an
// unknown user id fails fast instead of producing orphaned data.
type User struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	Email       string    `gorm:"type:text;not null;uniqueIndex:idx_users_email" json:"email"`
	DisplayName string    `gorm:"type:text" json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string {
	return "users"
}
