package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// 事件生命周期状态，公开接口只展示 PUBLISHED。
const (
	StatePending   = "PENDING"
	StatePublished = "PUBLISHED"
	StateCanceled  = "CANCELED"
)

// Event 定义了事件模型。Views 为派生字段，
// 由统计服务按需计算，不落库。
type Event struct {
	gorm.Model
	Title             string `gorm:"size:120;not null"`
	Annotation        string `gorm:"size:2000;not null"`
	Description       string `gorm:"type:text"`
	CategoryID        uint   `gorm:"index;not null"`
	Category          Category
	InitiatorID       uint `gorm:"index;not null"`
	Initiator         User
	Paid              bool
	EventDate         time.Time `gorm:"index;not null"`
	ParticipantLimit  int       `gorm:"default:0"`
	ConfirmedRequests int       `gorm:"default:0"`
	RequestModeration bool      `gorm:"default:true"`
	State             string    `gorm:"size:16;index;default:PENDING"`
	PublishedOn       *time.Time
	Views             int64 `gorm:"-"`
}

// PublicURI 返回事件在公开接口下的路径，也是统计服务的聚合键。
func (e *Event) PublicURI() string {
	return fmt.Sprintf("/events/%d", e.ID)
}
