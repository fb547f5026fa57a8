package api

import (
	"encoding/json"
	"net/http"

	"finlogix/middleware"
	"finlogix/models"
	"finlogix/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct {
	ledger *service.Ledger
}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler(ledger *service.Ledger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// AddTransactionRequest 新增交易请求，必填校验由账本服务完成
type AddTransactionRequest struct {
	Amount     *decimal.Decimal `json:"amount" swaggertype:"number" example:"500"`
	Type       string           `json:"type" example:"expense"`
	Note       *string          `json:"note" example:"Lunch"`
	CategoryID *uint            `json:"category_id" example:"2"`
}

// EditTransactionRequest 编辑交易请求，未提供的字段保持不变
type EditTransactionRequest struct {
	Amount     *decimal.Decimal `json:"amount" swaggertype:"number" example:"650"`
	Type       *string          `json:"type" example:"expense"`
	Note       *string          `json:"note" example:"Dinner"`
	CategoryID optionalID       `json:"category_id" swaggertype:"integer" example:"2"`
}

// optionalID 区分字段缺省与显式 null
type optionalID struct {
	Set   bool
	Value *uint
}

func (o *optionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Add 新增交易
// @Summary 新增交易
// @Description 支出必须指定 category_id；收入自动归入默认类别（Salary）
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddTransactionRequest true "交易信息"
// @Success 201 {object} CreatedResponse "创建成功"
// @Failure 400 {object} MessageResponse "参数错误"
// @Failure 401 {object} MessageResponse "未授权"
// @Router /transactions/add [post]
func (h *TransactionHandler) Add(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request body"))
		return
	}

	tx, err := h.ledger.Create(c.Request.Context(), userID, service.CreateTransactionInput{
		Amount:     req.Amount,
		Type:       req.Type,
		Note:       req.Note,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		RespondError(c, err, "Failed to add transaction")
		return
	}

	Created(c, "Transaction added", tx.ID)
}

// Edit 编辑交易
// @Summary 编辑交易
// @Description 部分更新，只覆盖请求中提供的字段；他人的交易按不存在处理
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body EditTransactionRequest true "要修改的字段"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} MessageResponse "参数错误"
// @Failure 404 {object} MessageResponse "交易不存在"
// @Router /transactions/edit/{id} [put]
func (h *TransactionHandler) Edit(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		NotFound(c, "Transaction not found")
		return
	}

	var req EditTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request body"))
		return
	}

	// 显式 null 按无效类别处理
	_, err := h.ledger.Update(c.Request.Context(), userID, id, service.TransactionPatch{
		Amount:       req.Amount,
		Type:         req.Type,
		Note:         req.Note,
		CategoryID:   req.CategoryID.Value,
		CategoryNull: req.CategoryID.Set && req.CategoryID.Value == nil,
	})
	if err != nil {
		RespondError(c, err, "Failed to update transaction")
		return
	}

	OK(c, "Transaction updated successfully")
}

// Delete 删除交易
// @Summary 删除交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} MessageResponse "交易不存在"
// @Router /transactions/delete/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		NotFound(c, "Transaction not found")
		return
	}

	if err := h.ledger.Delete(c.Request.Context(), userID, id); err != nil {
		RespondError(c, err, "Failed to delete transaction")
		return
	}

	OK(c, "Transaction deleted")
}

// List 当前用户的全部交易
// @Summary 交易列表
// @Description 按时间倒序返回当前用户的全部交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.TransactionRecord "交易列表"
// @Failure 401 {object} MessageResponse "未授权"
// @Router /transactions/list [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	list, err := h.ledger.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err, "Failed to list transactions")
		return
	}

	records := make([]models.TransactionRecord, 0, len(list))
	for i := range list {
		records = append(records, list[i].Record())
	}
	c.JSON(http.StatusOK, records)
}
