package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/explorewithme/internal/stats/dto"
)

// ErrStatsUnavailable 表示统计服务不可达或返回了非预期状态。
// 调用方必须降级处理，绝不能让它拖垮浏览请求本身。
var ErrStatsUnavailable = errors.New("stats service unavailable")

const defaultStatsTimeout = 500 * time.Millisecond

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatsProvider 是事件侧消费统计数据的抽象，便于测试替换。
type StatsProvider interface {
	Hit(ctx context.Context, uri, ip string, timestamp time.Time) error
	FindStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]dto.ViewStat, error)
}

// StatsClient 是统计服务的远程调用门面，
// 持有自己的超时与错误映射策略。
type StatsClient struct {
	baseURL string
	app     string
	http    httpDoer
}

// NewStatsClient 创建指向 serverURL 的客户端，app 为上报时的应用标识。
func NewStatsClient(serverURL, app string) *StatsClient {
	return &StatsClient{
		baseURL: strings.TrimRight(strings.TrimSpace(serverURL), "/"),
		app:     app,
		http:    &http.Client{Timeout: defaultStatsTimeout},
	}
}

// SetHTTPClient 允许在测试中替换底层 HTTP 客户端。
func (c *StatsClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: defaultStatsTimeout}
		return
	}
	c.http = client
}

// Hit 上报一次浏览。调用方按尽力而为处理：
// 失败只记录日志，不回滚、不重试、不影响页面响应。
func (c *StatsClient) Hit(ctx context.Context, uri, ip string, timestamp time.Time) error {
	payload := dto.EndpointHit{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: dto.FormatTime(timestamp),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build hit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: hit returned %s", ErrStatsUnavailable, resp.Status)
	}

	return nil
}

// FindStats 查询窗口内各 uri 的浏览量。传输失败或非 200
// 一律映射为 ErrStatsUnavailable，由事件排序方降级为零浏览量。
func (c *StatsClient) FindStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]dto.ViewStat, error) {
	params := url.Values{}
	params.Set("start", dto.FormatTime(start))
	params.Set("end", dto.FormatTime(end))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	params.Set("unique", strconv.FormatBool(unique))

	endpoint := c.baseURL + "/stats?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: stats returned %s", ErrStatsUnavailable, resp.Status)
	}

	var stats []dto.ViewStat
	if err := json.Unmarshal(respBody, &stats); err != nil {
		return nil, fmt.Errorf("%w: bad stats payload: %v", ErrStatsUnavailable, err)
	}

	return stats, nil
}
