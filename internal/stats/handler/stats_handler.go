package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/explorewithme/internal/stats/db"
	"github.com/explorewithme/internal/stats/dto"
	"github.com/explorewithme/internal/stats/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for stats HTTP handlers.
type API struct {
	hits *service.HitService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{hits: service.NewHitService(gdb)}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RecordHit 处理 POST /hit，成功返回 201 空响应体。
// 接口不做幂等保护，重复提交会产生重复记录。
func (a *API) RecordHit(c *gin.Context) {
	var req dto.EndpointHit
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid hit body")
		return
	}

	ts, err := dto.ParseTime(req.Timestamp)
	if err != nil {
		respondError(c, http.StatusBadRequest, "timestamp must match "+dto.TimeLayout)
		return
	}

	hit := db.EndpointHit{
		App:       req.App,
		URI:       req.URI,
		IP:        req.IP,
		Timestamp: ts,
	}

	if _, err := a.hits.Record(hit); err != nil {
		if errors.Is(err, service.ErrInvalidHit) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record hit")
		return
	}

	c.Status(http.StatusCreated)
}

// GetStats 处理 GET /stats，返回按 hits 降序排列的聚合结果。
func (a *API) GetStats(c *gin.Context) {
	start, ok := parseTimeQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		return
	}

	uris := c.QueryArray("uris")

	unique, err := strconv.ParseBool(c.DefaultQuery("unique", "false"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unique must be a boolean")
		return
	}

	stats, err := a.hits.Find(start, end, uris, unique)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to query stats")
		return
	}

	result := make([]dto.ViewStat, 0, len(stats))
	for _, stat := range stats {
		result = append(result, dto.ViewStat{App: stat.App, URI: stat.URI, Hits: stat.Hits})
	}

	c.JSON(http.StatusOK, result)
}

func parseTimeQuery(c *gin.Context, key string) (parsed time.Time, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		respondError(c, http.StatusBadRequest, key+" is required")
		return parsed, false
	}

	parsed, err := dto.ParseTime(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, key+" must match "+dto.TimeLayout)
		return parsed, false
	}

	return parsed, true
}
