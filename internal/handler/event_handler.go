package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/explorewithme/internal/db"
	"github.com/explorewithme/internal/service"
	"github.com/gin-gonic/gin"
)

// FindEventsPublic 处理 GET /events：组合可选过滤条件做公开搜索。
// 每次调用都会为 /events 上报一次浏览。
func (a *API) FindEventsPublic(c *gin.Context) {
	filter, ok := a.parsePublicFilter(c)
	if !ok {
		return
	}

	events, err := a.events.SearchPublic(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to search events")
		return
	}

	a.recordHit(c)

	c.JSON(http.StatusOK, toEventShortDTOs(events))
}

// FindEventByIDPublic 处理 GET /events/:eventId。
// 只有 PUBLISHED 事件对公众可见，其余一律 404。
func (a *API) FindEventByIDPublic(c *gin.Context) {
	id, err := parseUintParam(c, "eventId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	event, err := a.events.GetPublished(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("event %d not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load event")
		return
	}

	a.recordHit(c)

	c.JSON(http.StatusOK, toEventFullDTO(*event))
}

// FindEventsAdmin 处理 GET /admin/events：同一套过滤组合，
// 不强制 PUBLISHED 限制，并额外支持 states 与 users 条件。
func (a *API) FindEventsAdmin(c *gin.Context) {
	rangeStart, ok := parseTimeQuery(c, "rangeStart")
	if !ok {
		return
	}
	rangeEnd, ok := parseTimeQuery(c, "rangeEnd")
	if !ok {
		return
	}
	from, size, ok := parsePaging(c)
	if !ok {
		return
	}

	states := make([]string, 0)
	for _, raw := range c.QueryArray("states") {
		state := strings.ToUpper(strings.TrimSpace(raw))
		if state == "" {
			continue
		}
		switch state {
		case db.StatePending, db.StatePublished, db.StateCanceled:
			states = append(states, state)
		default:
			respondError(c, http.StatusBadRequest, "unknown state: "+raw)
			return
		}
	}

	filter := service.EventFilter{
		CategoryIDs:  parseUintQuerySlice(c.QueryArray("categories")),
		RangeStart:   rangeStart,
		RangeEnd:     rangeEnd,
		From:         from,
		Size:         size,
		States:       states,
		InitiatorIDs: parseUintQuerySlice(c.QueryArray("users")),
	}

	events, err := a.events.SearchAdmin(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to search events")
		return
	}

	c.JSON(http.StatusOK, toEventFullDTOs(events))
}

func (a *API) parsePublicFilter(c *gin.Context) (filter service.EventFilter, ok bool) {
	paid, ok := parseBoolQuery(c, "paid")
	if !ok {
		return filter, false
	}
	rangeStart, ok := parseTimeQuery(c, "rangeStart")
	if !ok {
		return filter, false
	}
	rangeEnd, ok := parseTimeQuery(c, "rangeEnd")
	if !ok {
		return filter, false
	}
	onlyAvailable, ok := parseBoolQuery(c, "onlyAvailable")
	if !ok {
		return filter, false
	}
	from, size, ok := parsePaging(c)
	if !ok {
		return filter, false
	}

	sort := c.DefaultQuery("sort", service.SortEventDate)
	if sort != service.SortEventDate && sort != service.SortViews {
		respondError(c, http.StatusBadRequest, "sort must be either 'EVENT_DATE' or 'VIEWS'")
		return filter, false
	}

	filter = service.EventFilter{
		Text:        c.Query("text"),
		CategoryIDs: parseUintQuerySlice(c.QueryArray("categories")),
		Paid:        paid,
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		Sort:        sort,
		From:        from,
		Size:        size,
	}
	if onlyAvailable != nil {
		filter.OnlyAvailable = *onlyAvailable
	}

	return filter, true
}
