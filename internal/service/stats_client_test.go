package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/explorewithme/internal/stats/dto"
)

type fakeDoer struct {
	lastReq  *http.Request
	lastBody []byte
	status   int
	body     string
	err      error
}

func (d *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	d.lastReq = req
	if req.Body != nil {
		d.lastBody, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Status:     fmt.Sprintf("%d %s", d.status, http.StatusText(d.status)),
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func TestStatsClientDefaultTimeout(t *testing.T) {
	t.Parallel()

	client := NewStatsClient("http://stats.local/", "ewm-main-service")

	httpClient, ok := client.http.(*http.Client)
	if !ok {
		t.Fatalf("expected *http.Client, got %T", client.http)
	}
	if httpClient.Timeout != defaultStatsTimeout {
		t.Fatalf("expected timeout %v, got %v", defaultStatsTimeout, httpClient.Timeout)
	}
	if client.baseURL != "http://stats.local" {
		t.Fatalf("expected trailing slash trimmed, got %q", client.baseURL)
	}
}

func TestHitSendsExpectedPayload(t *testing.T) {
	t.Parallel()

	doer := &fakeDoer{status: http.StatusCreated}
	client := NewStatsClient("http://stats.local", "ewm-main-service")
	client.SetHTTPClient(doer)

	ts := time.Date(2024, 6, 1, 10, 30, 0, 0, time.Local)
	if err := client.Hit(context.Background(), "/events/7", "10.0.0.1", ts); err != nil {
		t.Fatalf("hit failed: %v", err)
	}

	if doer.lastReq.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", doer.lastReq.Method)
	}
	if doer.lastReq.URL.String() != "http://stats.local/hit" {
		t.Fatalf("unexpected url: %s", doer.lastReq.URL)
	}

	var payload dto.EndpointHit
	if err := json.Unmarshal(doer.lastBody, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.App != "ewm-main-service" || payload.URI != "/events/7" || payload.IP != "10.0.0.1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Timestamp != "2024-06-01 10:30:00" {
		t.Fatalf("expected fixed timestamp pattern, got %q", payload.Timestamp)
	}
}

func TestHitMapsTransportFailure(t *testing.T) {
	t.Parallel()

	doer := &fakeDoer{err: errors.New("connection refused")}
	client := NewStatsClient("http://stats.local", "ewm")
	client.SetHTTPClient(doer)

	err := client.Hit(context.Background(), "/events/7", "10.0.0.1", time.Now())
	if !errors.Is(err, ErrStatsUnavailable) {
		t.Fatalf("expected ErrStatsUnavailable, got %v", err)
	}
}

func TestFindStatsBuildsQuery(t *testing.T) {
	t.Parallel()

	doer := &fakeDoer{status: http.StatusOK, body: `[{"app":"ewm","uri":"/events/1","hits":5}]`}
	client := NewStatsClient("http://stats.local", "ewm")
	client.SetHTTPClient(doer)

	start := time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 6, 1, 10, 30, 0, 0, time.Local)

	stats, err := client.FindStats(context.Background(), start, end, []string{"/events/1", "/events/2"}, true)
	if err != nil {
		t.Fatalf("findStats failed: %v", err)
	}

	query := doer.lastReq.URL.Query()
	if query.Get("start") != "1970-01-01 00:00:00" || query.Get("end") != "2024-06-01 10:30:00" {
		t.Fatalf("unexpected window params: %v", query)
	}
	if uris := query["uris"]; len(uris) != 2 || uris[0] != "/events/1" || uris[1] != "/events/2" {
		t.Fatalf("expected repeated uris keys, got %v", query["uris"])
	}
	if query.Get("unique") != "true" {
		t.Fatalf("expected unique=true, got %q", query.Get("unique"))
	}

	if len(stats) != 1 || stats[0].URI != "/events/1" || stats[0].Hits != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestFindStatsMapsBadStatus(t *testing.T) {
	t.Parallel()

	doer := &fakeDoer{status: http.StatusInternalServerError, body: "boom"}
	client := NewStatsClient("http://stats.local", "ewm")
	client.SetHTTPClient(doer)

	_, err := client.FindStats(context.Background(), time.Unix(0, 0), time.Now(), nil, false)
	if !errors.Is(err, ErrStatsUnavailable) {
		t.Fatalf("expected ErrStatsUnavailable, got %v", err)
	}
}

func TestFindStatsMapsTransportFailure(t *testing.T) {
	t.Parallel()

	doer := &fakeDoer{err: errors.New("dial timeout")}
	client := NewStatsClient("http://stats.local", "ewm")
	client.SetHTTPClient(doer)

	_, err := client.FindStats(context.Background(), time.Unix(0, 0), time.Now(), nil, false)
	if !errors.Is(err, ErrStatsUnavailable) {
		t.Fatalf("expected ErrStatsUnavailable, got %v", err)
	}
}
