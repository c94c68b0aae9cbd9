package db

import "gorm.io/gorm"

// User 定义了用户模型
type User struct {
	gorm.Model
	Name  string `gorm:"size:250;not null"`
	Email string `gorm:"size:254;unique;not null"`
}
