package service

import (
	"errors"
	"strings"
	"time"

	"github.com/explorewithme/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrCommentNotOwned   = errors.New("comment does not belong to this user and event")
	ErrEventNotPublished = errors.New("event is not published")
	ErrCommentBlank      = errors.New("comment text must not be blank")
)

// 评论为纯文本，入库前剥掉所有标记。
var commentPolicy = bluemonday.StrictPolicy()

// CommentService 负责事件评论的读写。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService 创建 CommentService 实例。
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create 在已发布事件下新增评论。
func (s *CommentService) Create(userID, eventID uint, text string) (*db.Comment, error) {
	var event db.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if event.State != db.StatePublished {
		return nil, ErrEventNotPublished
	}

	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	clean, err := sanitizeComment(text)
	if err != nil {
		return nil, err
	}

	comment := db.Comment{Text: clean, EventID: eventID, UserID: userID}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	comment.Event = event
	comment.User = user
	return &comment, nil
}

// Update 修改评论正文，评论必须属于给定的用户和事件。
func (s *CommentService) Update(userID, eventID, commentID uint, text string) (*db.Comment, error) {
	comment, err := s.getOwned(userID, eventID, commentID)
	if err != nil {
		return nil, err
	}

	clean, err := sanitizeComment(text)
	if err != nil {
		return nil, err
	}

	comment.Text = clean
	if err := s.db.Save(comment).Error; err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete 删除用户自己的评论。
func (s *CommentService) Delete(userID, eventID, commentID uint) error {
	comment, err := s.getOwned(userID, eventID, commentID)
	if err != nil {
		return err
	}
	return s.db.Delete(comment).Error
}

// FindByID 按 id 返回单条评论。
func (s *CommentService) FindByID(commentID uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.Preload("User").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// FindByEvent 返回事件下的全部评论，按时间正序。
func (s *CommentService) FindByEvent(eventID uint) ([]db.Comment, error) {
	var count int64
	if err := s.db.Model(&db.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEventNotFound
	}

	var comments []db.Comment
	if err := s.db.Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}

// SearchAdmin 按用户、事件与时间窗口检索评论，供管理端使用。
func (s *CommentService) SearchAdmin(userIDs, eventIDs []uint, rangeStart, rangeEnd *time.Time, from, size int) ([]db.Comment, error) {
	if rangeStart != nil && rangeEnd != nil && rangeStart.After(*rangeEnd) {
		return nil, ErrInvalidRange
	}

	if size <= 0 {
		size = 10
	}
	if from < 0 {
		from = 0
	}
	page := from / size

	query := s.db.Model(&db.Comment{}).Preload("User")
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}
	if len(eventIDs) > 0 {
		query = query.Where("event_id IN ?", eventIDs)
	}
	if rangeStart != nil {
		query = query.Where("created_at >= ?", *rangeStart)
	}
	if rangeEnd != nil {
		query = query.Where("created_at <= ?", *rangeEnd)
	}

	var comments []db.Comment
	if err := query.Order("created_at asc, id asc").
		Offset(page * size).
		Limit(size).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}

// DeleteAdmin 由管理端直接删除任意评论。
func (s *CommentService) DeleteAdmin(commentID uint) error {
	var comment db.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return s.db.Delete(&comment).Error
}

func (s *CommentService) getOwned(userID, eventID, commentID uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.EventID != eventID || comment.UserID != userID {
		return nil, ErrCommentNotOwned
	}

	return &comment, nil
}

func sanitizeComment(text string) (string, error) {
	clean := strings.TrimSpace(commentPolicy.Sanitize(text))
	if clean == "" {
		return "", ErrCommentBlank
	}
	return clean, nil
}
