// Package dto 定义统计服务对外的传输结构，
// 供 stats-server 的处理器与主服务的 StatsClient 共同使用。
package dto

import "time"

// TimeLayout 是统计接口约定的时间格式，不携带时区偏移。
const TimeLayout = "2006-01-02 15:04:05"

// EndpointHit 是 POST /hit 的请求体。
type EndpointHit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStat 是 GET /stats 的单条聚合结果。
type ViewStat struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// ParseTime 按约定格式解析时间字符串，视为本地无时区时间。
func ParseTime(value string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, value, time.Local)
}

// FormatTime 按约定格式序列化时间。
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
