package db

import "time"

// EndpointHit 记录一次公开端点的浏览，日志只追加不修改。
type EndpointHit struct {
	ID        uint      `gorm:"primaryKey"`
	App       string    `gorm:"size:255;not null;index:idx_hits_app_uri"`
	URI       string    `gorm:"size:512;not null;index:idx_hits_app_uri"`
	IP        string    `gorm:"size:45;not null"`
	Timestamp time.Time `gorm:"not null;index"`
}

// TableName 指定自定义表名。
func (EndpointHit) TableName() string {
	return "endpoint_hits"
}
