package service

import (
	"cmp"
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/explorewithme/internal/db"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidRange  = errors.New("range start must not be after range end")
)

// 公开搜索支持的排序键。
const (
	SortEventDate = "EVENT_DATE"
	SortViews     = "VIEWS"
)

// EventFilter 描述一次事件搜索。可选条件为零值时不参与过滤；
// States 与 InitiatorIDs 仅供管理端使用。
type EventFilter struct {
	Text          string
	CategoryIDs   []uint
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          string
	From          int
	Size          int
	States        []string
	InitiatorIDs  []uint
}

// EventService 负责事件的检索、过滤与按浏览量排序。
type EventService struct {
	db    *gorm.DB
	stats StatsProvider
}

// NewEventService 创建 EventService 实例。
func NewEventService(gdb *gorm.DB, stats StatsProvider) *EventService {
	return &EventService{db: gdb, stats: stats}
}

// SearchPublic 执行公开搜索：仅返回 PUBLISHED 事件，
// 未给定时间范围时默认只看未来的事件，最后叠加浏览量并排序。
func (s *EventService) SearchPublic(ctx context.Context, filter EventFilter) ([]db.Event, error) {
	if err := validateRange(filter.RangeStart, filter.RangeEnd); err != nil {
		return nil, err
	}

	filter.States = []string{db.StatePublished}
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		now := time.Now()
		filter.RangeStart = &now
	}

	events, err := s.find(filter)
	if err != nil {
		return nil, err
	}

	s.attachViews(ctx, events)

	if filter.Sort == SortViews {
		slices.SortFunc(events, func(a, b db.Event) int {
			if c := cmp.Compare(b.Views, a.Views); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	} else {
		slices.SortFunc(events, func(a, b db.Event) int {
			if c := a.EventDate.Compare(b.EventDate); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}

	return events, nil
}

// SearchAdmin 执行管理端搜索：状态不做强制限制，
// 由调用方通过 States/InitiatorIDs 自行圈定，返回同样带浏览量。
func (s *EventService) SearchAdmin(ctx context.Context, filter EventFilter) ([]db.Event, error) {
	if err := validateRange(filter.RangeStart, filter.RangeEnd); err != nil {
		return nil, err
	}

	events, err := s.find(filter)
	if err != nil {
		return nil, err
	}

	s.attachViews(ctx, events)
	return events, nil
}

// GetPublished 返回单个已发布事件并叠加浏览量，
// 未发布或不存在一律视为未找到。
func (s *EventService) GetPublished(ctx context.Context, id uint) (*db.Event, error) {
	var event db.Event
	if err := s.db.Preload("Category").Preload("Initiator").
		Where("state = ?", db.StatePublished).
		First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	events := []db.Event{event}
	s.attachViews(ctx, events)
	return &events[0], nil
}

// find 将可选条件组合为合取查询并按页取出候选集。
// 分页沿用 page = from / size 的向下取整语义。
func (s *EventService) find(filter EventFilter) ([]db.Event, error) {
	size := filter.Size
	if size <= 0 {
		size = 10
	}
	from := filter.From
	if from < 0 {
		from = 0
	}
	page := from / size

	query := s.db.Model(&db.Event{}).
		Preload("Category").
		Preload("Initiator").
		Scopes(filterScopes(filter)...).
		Order("event_date asc, id asc").
		Offset(page * size).
		Limit(size)

	var events []db.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// filterScopes 把每个出现的条件翻译为一个 gorm scope，
// 公开与管理端共用同一套组合逻辑。
func filterScopes(filter EventFilter) []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	if text := strings.TrimSpace(filter.Text); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("LOWER(annotation) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		})
	}

	if len(filter.CategoryIDs) > 0 {
		ids := filter.CategoryIDs
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("category_id IN ?", ids)
		})
	}

	if filter.Paid != nil {
		paid := *filter.Paid
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("paid = ?", paid)
		})
	}

	if filter.RangeStart != nil {
		start := *filter.RangeStart
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("event_date >= ?", start)
		})
	}

	if filter.RangeEnd != nil {
		end := *filter.RangeEnd
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("event_date <= ?", end)
		})
	}

	if filter.OnlyAvailable {
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("participant_limit = 0 OR confirmed_requests < participant_limit")
		})
	}

	if len(filter.States) > 0 {
		states := filter.States
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("state IN ?", states)
		})
	}

	if len(filter.InitiatorIDs) > 0 {
		ids := filter.InitiatorIDs
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("initiator_id IN ?", ids)
		})
	}

	return scopes
}

// attachViews 向候选集叠加按 ip 去重的浏览量，窗口为全量历史。
// 统计服务不可用时降级为零浏览量，页面可用性优先于热度数据。
func (s *EventService) attachViews(ctx context.Context, events []db.Event) {
	if len(events) == 0 || s.stats == nil {
		return
	}

	uris := make([]string, 0, len(events))
	for i := range events {
		uris = append(uris, events[i].PublicURI())
	}

	stats, err := s.stats.FindStats(ctx, time.Unix(0, 0), time.Now(), uris, true)
	if err != nil {
		log.Printf("stats lookup failed, serving zero views: %v", err)
		for i := range events {
			events[i].Views = 0
		}
		return
	}

	hits := make(map[string]int64, len(stats))
	for _, stat := range stats {
		hits[stat.URI] = stat.Hits
	}

	for i := range events {
		events[i].Views = hits[events[i].PublicURI()]
	}
}

func validateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return ErrInvalidRange
	}
	return nil
}
