package service

import (
	"errors"
	"testing"
	"time"

	"github.com/explorewithme/internal/stats/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHitTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.EndpointHit{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func mustRecord(t *testing.T, svc *HitService, uri, ip string, ts time.Time) {
	t.Helper()
	if _, err := svc.Record(db.EndpointHit{App: "ewm-main-service", URI: uri, IP: ip, Timestamp: ts}); err != nil {
		t.Fatalf("failed to record hit %s %s: %v", uri, ip, err)
	}
}

func TestRecordRejectsBlankFields(t *testing.T) {
	gdb, cleanup := setupHitTestDB(t)
	defer cleanup()

	svc := NewHitService(gdb)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []db.EndpointHit{
		{App: "", URI: "/events/1", IP: "10.0.0.1", Timestamp: now},
		{App: "ewm", URI: "  ", IP: "10.0.0.1", Timestamp: now},
		{App: "ewm", URI: "/events/1", IP: "", Timestamp: now},
		{App: "ewm", URI: "/events/1", IP: "10.0.0.1"},
	}

	for i, hit := range cases {
		if _, err := svc.Record(hit); !errors.Is(err, ErrInvalidHit) {
			t.Fatalf("case %d: expected ErrInvalidHit, got %v", i, err)
		}
	}

	var count int64
	if err := gdb.Model(&db.EndpointHit{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count hits: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows after rejected hits, got %d", count)
	}
}

func TestFindCountsAndUniqueCounts(t *testing.T) {
	gdb, cleanup := setupHitTestDB(t)
	defer cleanup()

	svc := NewHitService(gdb)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// 同一访客重复浏览同一事件三次，另一访客浏览一次
	mustRecord(t, svc, "/events/1", "10.0.0.1", base)
	mustRecord(t, svc, "/events/1", "10.0.0.1", base.Add(time.Minute))
	mustRecord(t, svc, "/events/1", "10.0.0.1", base.Add(2*time.Minute))
	mustRecord(t, svc, "/events/1", "10.0.0.2", base.Add(3*time.Minute))
	mustRecord(t, svc, "/events/2", "10.0.0.1", base.Add(4*time.Minute))

	start := base.Add(-time.Hour)
	end := base.Add(time.Hour)

	stats, err := svc.Find(start, end, nil, false)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(stats))
	}
	if stats[0].URI != "/events/1" || stats[0].Hits != 4 {
		t.Fatalf("expected /events/1 with 4 hits first, got %+v", stats[0])
	}
	if stats[1].URI != "/events/2" || stats[1].Hits != 1 {
		t.Fatalf("expected /events/2 with 1 hit, got %+v", stats[1])
	}

	unique, err := svc.Find(start, end, nil, true)
	if err != nil {
		t.Fatalf("unique find failed: %v", err)
	}
	if unique[0].URI != "/events/1" || unique[0].Hits != 2 {
		t.Fatalf("expected 2 unique visitors for /events/1, got %+v", unique[0])
	}
	if unique[1].Hits != 1 {
		t.Fatalf("expected 1 unique visitor for /events/2, got %+v", unique[1])
	}
}

func TestFindFiltersByURIAndWindow(t *testing.T) {
	gdb, cleanup := setupHitTestDB(t)
	defer cleanup()

	svc := NewHitService(gdb)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mustRecord(t, svc, "/events/1", "10.0.0.1", base)
	mustRecord(t, svc, "/events/2", "10.0.0.2", base)
	mustRecord(t, svc, "/events/1", "10.0.0.3", base.Add(48*time.Hour))

	stats, err := svc.Find(base.Add(-time.Hour), base.Add(time.Hour), []string{"/events/1"}, false)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected single aggregate for /events/1, got %d", len(stats))
	}
	if stats[0].URI != "/events/1" || stats[0].Hits != 1 {
		t.Fatalf("window filter ignored, got %+v", stats[0])
	}

	stats, err = svc.Find(base.Add(-time.Hour), base.Add(time.Hour), []string{"/events/404"}, false)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected no aggregates for unknown uri, got %d", len(stats))
	}
}

func TestFindRejectsInvertedRange(t *testing.T) {
	gdb, cleanup := setupHitTestDB(t)
	defer cleanup()

	svc := NewHitService(gdb)
	now := time.Now()

	if _, err := svc.Find(now, now.Add(-time.Hour), nil, false); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
