package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/GaneshVarma1/Goodmoney/internal/models"
	"github.com/GaneshVarma1/Goodmoney/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryHandler serves budget category CRUD.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name         string `json:"name" binding:"required,max=64"`
	MonthlyLimit string `json:"monthly_limit" binding:"required"`
}

type categoryResp struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	MonthlyLimit string `json:"monthly_limit"`
}

func toCategoryResp(bc *models.BudgetCategory) categoryResp {
	return categoryResp{
		ID:           bc.ID,
		Name:         bc.Name,
		MonthlyLimit: bc.MonthlyLimit.StringFixed(2),
	}
}

func (r *categoryReq) parseLimit() (decimal.Decimal, bool) {
	limit, err := decimal.NewFromString(r.MonthlyLimit)
	if err != nil || limit.Sign() < 0 {
		return decimal.Zero, false
	}
	return limit, true
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name is required")
		return
	}

	limit, ok := req.parseLimit()
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "please enter a valid limit")
		return
	}

	bc := models.BudgetCategory{
		UserID:       user.ID,
		Name:         req.Name,
		MonthlyLimit: limit,
	}
	if err := h.DB.Create(&bc).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}

	util.Success(c, util.Response{
		"category": toCategoryResp(&bc),
	})
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var cats []models.BudgetCategory
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("name ASC").
		Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]categoryResp, 0, len(cats))
	for i := range cats {
		items = append(items, toCategoryResp(&cats[i]))
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	limit, ok := req.parseLimit()
	if req.Name == "" || !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var bc models.BudgetCategory
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&bc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	bc.Name = req.Name
	bc.MonthlyLimit = limit

	if err := h.DB.Save(&bc).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}

	util.Success(c, util.Response{
		"category": toCategoryResp(&bc),
	})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.DB.
		Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.BudgetCategory{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete")
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}
