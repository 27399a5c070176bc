package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GaneshVarma1/Goodmoney/internal/models"
	"github.com/GaneshVarma1/Goodmoney/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoalHandler serves savings goal CRUD.
type GoalHandler struct {
	DB *gorm.DB
}

func NewGoalHandler(db *gorm.DB) *GoalHandler {
	return &GoalHandler{DB: db}
}

type goalReq struct {
	Name          string `json:"name" binding:"required,max=64"`
	TargetAmount  string `json:"target_amount" binding:"required"`
	CurrentAmount string `json:"current_amount"`
	TargetDate    string `json:"target_date"` // YYYY-MM-DD, optional
}

type goalResp struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	TargetDate    string `json:"target_date,omitempty"`
}

func toGoalResp(g *models.SavingsGoal) goalResp {
	resp := goalResp{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
	}
	if g.TargetDate != nil {
		resp.TargetDate = g.TargetDate.Format("2006-01-02")
	}
	return resp
}

func (r *goalReq) parse() (target, current decimal.Decimal, targetDate *time.Time, ok bool) {
	target, err := decimal.NewFromString(r.TargetAmount)
	if err != nil || target.Sign() <= 0 {
		return decimal.Zero, decimal.Zero, nil, false
	}

	current = decimal.Zero
	if r.CurrentAmount != "" {
		current, err = decimal.NewFromString(r.CurrentAmount)
		if err != nil || current.Sign() < 0 {
			return decimal.Zero, decimal.Zero, nil, false
		}
	}

	if r.TargetDate != "" {
		t, err := time.Parse("2006-01-02", r.TargetDate)
		if err != nil {
			return decimal.Zero, decimal.Zero, nil, false
		}
		targetDate = &t
	}

	return target, current, targetDate, true
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	target, current, targetDate, ok := req.parse()
	if req.Name == "" || !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	goal := models.SavingsGoal{
		UserID:        user.ID,
		Name:          req.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		TargetDate:    targetDate,
	}
	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}

	util.Success(c, util.Response{
		"goal": toGoalResp(&goal),
	})
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var goals []models.SavingsGoal
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]goalResp, 0, len(goals))
	for i := range goals {
		items = append(items, toGoalResp(&goals[i]))
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	target, current, targetDate, ok := req.parse()
	if req.Name == "" || !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var goal models.SavingsGoal
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	goal.Name = req.Name
	goal.TargetAmount = target
	goal.CurrentAmount = current
	goal.TargetDate = targetDate

	if err := h.DB.Save(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}

	util.Success(c, util.Response{
		"goal": toGoalResp(&goal),
	})
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
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
		Delete(&models.SavingsGoal{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete")
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}
