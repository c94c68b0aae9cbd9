package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/explorewithme/internal/service"
	"github.com/gin-gonic/gin"
)

// FindCategories 处理 GET /categories。
func (a *API) FindCategories(c *gin.Context) {
	from, size, ok := parsePaging(c)
	if !ok {
		return
	}

	categories, err := a.categories.List(from, size)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}

	result := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		result = append(result, toCategoryDTO(category))
	}

	c.JSON(http.StatusOK, result)
}

// FindCategoryByID 处理 GET /categories/:categoryId。
func (a *API) FindCategoryByID(c *gin.Context) {
	id, err := parseUintParam(c, "categoryId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("category %d not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load category")
		return
	}

	c.JSON(http.StatusOK, toCategoryDTO(*category))
}
