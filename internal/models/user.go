package models

import "time"

// User mirrors the identity we receive from the auth provider. Rows are created
// once per email on first sight and never updated or deleted.
type User struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"column:name;type:text" json:"name"`
	ImageURL string `gorm:"column:image_url;type:text" json:"imageUrl"`
	Email    string `gorm:"column:email;type:text;uniqueIndex" json:"email"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
}

func (User) TableName() string { return "users" }
