package Models

import "gorm.io/gorm"

// User is an application account. Permission levels: 1 viewer, 2 reviewer,
// 3 manager, 4 admin.
type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"unique"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`
}
