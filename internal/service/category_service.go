package service

import (
	"errors"

	"github.com/explorewithme/internal/db"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryService 提供分类的只读访问。
// 分类的增删改属于管理子系统，公开接口只需要读取。
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建 CategoryService 实例。
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List 按 from/size 分页返回分类，沿用 page = from / size 的取整语义。
func (s *CategoryService) List(from, size int) ([]db.Category, error) {
	if size <= 0 {
		size = 10
	}
	if from < 0 {
		from = 0
	}
	page := from / size

	var categories []db.Category
	if err := s.db.Order("id asc").
		Offset(page * size).
		Limit(size).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// Get 按 id 返回分类。
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}
