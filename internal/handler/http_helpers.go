package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// timeLayout 与统计服务共用同一时间格式，不携带时区偏移。
const timeLayout = "2006-01-02 15:04:05"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseUintQuerySlice(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		parsed, err := strconv.ParseUint(trimmed, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(parsed))
	}
	return ids
}

// parseTimeQuery 解析可选的时间查询参数；缺省返回 nil。
// 格式不符时向客户端返回 400 并报告 ok=false。
func parseTimeQuery(c *gin.Context, key string) (value *time.Time, ok bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}

	parsed, err := time.ParseInLocation(timeLayout, raw, time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, key+" must match "+timeLayout)
		return nil, false
	}

	return &parsed, true
}

// parseBoolQuery 解析可选布尔查询参数，缺省返回 nil。
func parseBoolQuery(c *gin.Context, key string) (value *bool, ok bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, key+" must be a boolean")
		return nil, false
	}

	return &parsed, true
}

// parsePaging 解析 from/size 分页参数并校验下界。
func parsePaging(c *gin.Context) (from, size int, ok bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		respondError(c, http.StatusBadRequest, "from must be a non-negative integer")
		return 0, 0, false
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		respondError(c, http.StatusBadRequest, "size must be a positive integer")
		return 0, 0, false
	}

	return from, size, true
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
