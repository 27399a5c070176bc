package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GaneshVarma1/Goodmoney/internal/copilot"
	"github.com/GaneshVarma1/Goodmoney/internal/util"

	"github.com/gin-gonic/gin"
)

// CopilotHandler exposes the AI assistant pipeline over HTTP.
type CopilotHandler struct {
	Service *copilot.Service
}

func NewCopilotHandler(svc *copilot.Service) *CopilotHandler {
	return &CopilotHandler{Service: svc}
}

type copilotReq struct {
	Message string `json:"message"`
	Context string `json:"context"`
	UserID  string `json:"user_id"`
}

// Chat handles POST /copilot.
func (h *CopilotHandler) Chat(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req copilotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if req.UserID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "user ID is required")
		return
	}
	if req.UserID != strconv.FormatUint(uint64(user.ID), 10) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "user ID does not match the logged-in user")
		return
	}

	result, err := h.Service.Chat(c.Request.Context(), copilot.ChatRequest{
		OwnerID: user.ID,
		Message: req.Message,
		Context: req.Context,
	})
	if err != nil {
		writeCopilotError(c, err)
		return
	}

	util.Success(c, util.Response{
		"response": result.Response,
		"usage": gin.H{
			"prompt_tokens":     result.Usage.PromptTokens,
			"completion_tokens": result.Usage.CompletionTokens,
			"total_tokens":      result.Usage.TotalTokens,
		},
	})
}

// History handles GET /copilot/history.
func (h *CopilotHandler) History(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, err := h.Service.History(c.Request.Context(), user.ID, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load chat history")
		return
	}

	type msgResp struct {
		Role      string    `json:"role"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	}
	items := make([]msgResp, 0, len(msgs))
	for i := range msgs {
		items = append(items, msgResp{
			Role:      msgs[i].Role,
			Content:   msgs[i].Content,
			CreatedAt: msgs[i].CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

// Test handles GET /copilot/test, a connectivity/credential probe.
func (h *CopilotHandler) Test(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	completion, err := h.Service.Probe(c.Request.Context())
	if err != nil {
		writeCopilotError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message":  "API connection successful",
		"response": completion.Text,
		"usage": gin.H{
			"prompt_tokens":     completion.Usage.PromptTokens,
			"completion_tokens": completion.Usage.CompletionTokens,
			"total_tokens":      completion.Usage.TotalTokens,
		},
	})
}

// writeCopilotError maps pipeline error kinds onto HTTP statuses.
func writeCopilotError(c *gin.Context, err error) {
	switch copilot.KindOf(err) {
	case copilot.KindInvalidRequest:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case copilot.KindConfig:
		util.Error(c, http.StatusInternalServerError, util.CodeConfigErr, err.Error())
	case copilot.KindAuth:
		util.Error(c, http.StatusUnauthorized, util.CodeAuth,
			"AI service credential rejected, check the TOGETHER_API_KEY value")
	case copilot.KindRateLimited:
		util.Error(c, http.StatusTooManyRequests, util.CodeRateLimited,
			"AI service rate limit exceeded, please try again later")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr,
			"AI service is unavailable, please try again later")
	}
}
