package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/explorewithme/internal/stats/db"
	"gorm.io/gorm"
)

var (
	ErrInvalidHit   = errors.New("invalid hit")
	ErrInvalidRange = errors.New("start must not be after end")
)

// HitService 负责浏览日志的写入与窗口内的聚合查询。
type HitService struct {
	db *gorm.DB
}

// ViewStat 表示某个 (app, uri) 在查询窗口内的浏览量。
type ViewStat struct {
	App  string
	URI  string
	Hits int64
}

// NewHitService 创建 HitService 实例。
func NewHitService(gdb *gorm.DB) *HitService {
	return &HitService{db: gdb}
}

// Record 追加一条浏览记录。写入端不做去重，
// 重复浏览由查询端的 unique 模式吸收。
func (s *HitService) Record(hit db.EndpointHit) (*db.EndpointHit, error) {
	if err := validateHit(hit); err != nil {
		return nil, err
	}

	if err := s.db.Create(&hit).Error; err != nil {
		return nil, err
	}

	return &hit, nil
}

// Find 统计 [start, end] 窗口内每个 (app, uri) 的浏览量，按 hits 降序返回。
// uris 为空表示统计窗口内出现过的所有 uri；unique 为真时按 ip 去重计数。
// 没有任何浏览记录的 (app, uri) 不会出现在结果里。
func (s *HitService) Find(start, end time.Time, uris []string, unique bool) ([]ViewStat, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	query := s.db.Model(&db.EndpointHit{}).
		Where("timestamp BETWEEN ? AND ?", start, end)

	if len(uris) > 0 {
		query = query.Where("uri IN ?", uris)
	}

	selectExpr := "app, uri, COUNT(ip) AS hits"
	if unique {
		selectExpr = "app, uri, COUNT(DISTINCT ip) AS hits"
	}

	var stats []ViewStat
	if err := query.Select(selectExpr).
		Group("app, uri").
		Order("hits DESC, uri ASC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func validateHit(hit db.EndpointHit) error {
	switch {
	case strings.TrimSpace(hit.App) == "":
		return fmt.Errorf("%w: app must not be blank", ErrInvalidHit)
	case strings.TrimSpace(hit.URI) == "":
		return fmt.Errorf("%w: uri must not be blank", ErrInvalidHit)
	case strings.TrimSpace(hit.IP) == "":
		return fmt.Errorf("%w: ip must not be blank", ErrInvalidHit)
	case hit.Timestamp.IsZero():
		return fmt.Errorf("%w: timestamp must be set", ErrInvalidHit)
	}
	return nil
}
