package api

import (
	"net/http"

	"finlogix/middleware"
	"finlogix/service"

	"github.com/gin-gonic/gin"
)

// AdviceHandler 理财建议处理器
type AdviceHandler struct {
	advisor *service.Advisor
}

// NewAdviceHandler 创建理财建议处理器
func NewAdviceHandler(advisor *service.Advisor) *AdviceHandler {
	return &AdviceHandler{advisor: advisor}
}

// AdviceResponse 理财建议
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// Advice 根据当前用户的全部交易生成理财建议
// @Summary 获取理财建议
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AdviceResponse "建议内容"
// @Failure 503 {object} MessageResponse "未配置AI服务"
// @Router /ai/advice [get]
func (h *AdviceHandler) Advice(c *gin.Context) {
	advice, err := h.advisor.Advise(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err, "Failed to generate advice")
		return
	}
	c.JSON(http.StatusOK, AdviceResponse{Advice: advice})
}

// History 最近的建议记录
// @Summary 理财建议历史
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AdviceHistory "历史记录"
// @Router /ai/advice/history [get]
func (h *AdviceHandler) History(c *gin.Context) {
	list, err := h.advisor.History(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err, "Failed to load advice history")
		return
	}
	c.JSON(http.StatusOK, list)
}
