package db

import "gorm.io/gorm"

// Comment 定义了事件评论模型
type Comment struct {
	gorm.Model
	Text    string `gorm:"size:2000;not null"`
	EventID uint   `gorm:"index;not null"`
	Event   Event
	UserID  uint `gorm:"index;not null"`
	User    User
}
