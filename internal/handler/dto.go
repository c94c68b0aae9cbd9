package handler

import (
	"bytes"

	"github.com/explorewithme/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// CategoryDTO 是分类的响应结构。
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserShortDTO 只暴露发起人的公开字段。
type UserShortDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// EventShortDTO 是列表接口的事件摘要。
type EventShortDTO struct {
	ID                uint        `json:"id"`
	Title             string      `json:"title"`
	Annotation        string      `json:"annotation"`
	Category          CategoryDTO `json:"category"`
	Paid              bool        `json:"paid"`
	EventDate         string      `json:"eventDate"`
	ConfirmedRequests int         `json:"confirmedRequests"`
	Views             int64       `json:"views"`
}

// EventFullDTO 是详情接口的完整事件视图，
// descriptionHtml 为渲染并消毒后的描述。
type EventFullDTO struct {
	EventShortDTO
	Description       string       `json:"description"`
	DescriptionHTML   string       `json:"descriptionHtml"`
	ParticipantLimit  int          `json:"participantLimit"`
	RequestModeration bool         `json:"requestModeration"`
	State             string       `json:"state"`
	CreatedOn         string       `json:"createdOn"`
	PublishedOn       *string      `json:"publishedOn,omitempty"`
	Initiator         UserShortDTO `json:"initiator"`
}

// CommentDTO 是评论的响应结构。
type CommentDTO struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	EventID uint         `json:"eventId"`
	Author  UserShortDTO `json:"author"`
	Created string       `json:"created"`
}

func toCategoryDTO(category db.Category) CategoryDTO {
	return CategoryDTO{ID: category.ID, Name: category.Name}
}

func toEventShortDTO(event db.Event) EventShortDTO {
	return EventShortDTO{
		ID:                event.ID,
		Title:             event.Title,
		Annotation:        event.Annotation,
		Category:          toCategoryDTO(event.Category),
		Paid:              event.Paid,
		EventDate:         formatTime(event.EventDate),
		ConfirmedRequests: event.ConfirmedRequests,
		Views:             event.Views,
	}
}

func toEventShortDTOs(events []db.Event) []EventShortDTO {
	result := make([]EventShortDTO, 0, len(events))
	for _, event := range events {
		result = append(result, toEventShortDTO(event))
	}
	return result
}

func toEventFullDTO(event db.Event) EventFullDTO {
	dto := EventFullDTO{
		EventShortDTO:     toEventShortDTO(event),
		Description:       event.Description,
		DescriptionHTML:   renderDescription(event.Description),
		ParticipantLimit:  event.ParticipantLimit,
		RequestModeration: event.RequestModeration,
		State:             event.State,
		CreatedOn:         formatTime(event.CreatedAt),
		Initiator:         UserShortDTO{ID: event.Initiator.ID, Name: event.Initiator.Name},
	}

	if event.PublishedOn != nil {
		published := formatTime(*event.PublishedOn)
		dto.PublishedOn = &published
	}

	return dto
}

func toEventFullDTOs(events []db.Event) []EventFullDTO {
	result := make([]EventFullDTO, 0, len(events))
	for _, event := range events {
		result = append(result, toEventFullDTO(event))
	}
	return result
}

func toCommentDTO(comment db.Comment) CommentDTO {
	return CommentDTO{
		ID:      comment.ID,
		Text:    comment.Text,
		EventID: comment.EventID,
		Author:  UserShortDTO{ID: comment.User.ID, Name: comment.User.Name},
		Created: formatTime(comment.CreatedAt),
	}
}

func toCommentDTOs(comments []db.Comment) []CommentDTO {
	result := make([]CommentDTO, 0, len(comments))
	for _, comment := range comments {
		result = append(result, toCommentDTO(comment))
	}
	return result
}

// renderDescription 将事件描述从 Markdown 渲染为消毒后的 HTML。
// 渲染失败时退回到纯文本消毒结果。
func renderDescription(markdown string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return sanitizer.Sanitize(markdown)
	}
	return sanitizer.Sanitize(buf.String())
}
