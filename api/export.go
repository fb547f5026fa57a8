package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"finlogix/middleware"
	"finlogix/models"
	"finlogix/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	ledger *service.Ledger
}

// NewExportHandler 创建导出处理器
func NewExportHandler(ledger *service.Ledger) *ExportHandler {
	return &ExportHandler{ledger: ledger}
}

var exportHeaders = []string{"ID", "Timestamp", "Type", "Category", "Amount", "Note"}

// ledgerTotals 收入、支出合计
type ledgerTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (t ledgerTotals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

func sumLedger(list []models.Transaction) ledgerTotals {
	var t ledgerTotals
	for _, tx := range list {
		if tx.Type == models.TransactionIncome {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	return t
}

func exportRow(tx *models.Transaction) []string {
	return []string{
		fmt.Sprintf("%d", tx.ID),
		tx.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		tx.Type,
		tx.CategoryNameOr(""),
		tx.Amount.StringFixed(2),
		tx.NoteOrDefault(""),
	}
}

func exportFilename(ext string) string {
	return fmt.Sprintf("transactions_%s.%s", time.Now().UTC().Format("20060102_150405"), ext)
}

// ExportCSV 导出交易为 CSV
// @Summary 导出交易（CSV）
// @Description 导出当前用户的全部交易，顺序与列表一致
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} MessageResponse "未授权"
// @Router /transactions/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	list, err := h.ledger.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err, "Failed to export transactions")
		return
	}

	buf := new(bytes.Buffer)
	// BOM，Excel 打开时正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}
	for i := range list {
		if err := writer.Write(exportRow(&list[i])); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出交易为 Excel
// @Summary 导出交易（Excel）
// @Description 导出当前用户的全部交易，末尾附收入、支出、结余合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "xlsx 文件"
// @Failure 401 {object} MessageResponse "未授权"
// @Router /transactions/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	list, err := h.ledger.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err, "Failed to export transactions")
		return
	}

	f, err := buildLedgerWorkbook(list)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate Excel"))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate Excel"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

const ledgerSheet = "Transactions"

// buildLedgerWorkbook 表头加粗着色，数据行之后空一行写合计
func buildLedgerWorkbook(list []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ledgerSheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(ledgerSheet, "A1", lastHeader, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	for r := range list {
		tx := &list[r]
		row := r + 2
		amount, _ := tx.Amount.Float64()
		values := []any{tx.ID, tx.Timestamp.UTC().Format("2006-01-02 15:04:05"), tx.Type, tx.CategoryNameOr(""), amount, tx.NoteOrDefault("")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(ledgerSheet, cell, v)
		}
	}

	totals := sumLedger(list)
	row := len(list) + 3
	for i, item := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Total income", totals.Income},
		{"Total expense", totals.Expense},
		{"Balance", totals.Balance()},
	} {
		v, _ := item.value.Float64()
		f.SetCellValue(ledgerSheet, fmt.Sprintf("D%d", row+i), item.label)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("E%d", row+i), v)
	}

	f.SetColWidth(ledgerSheet, "B", "B", 20)
	f.SetColWidth(ledgerSheet, "D", "D", 16)
	f.SetColWidth(ledgerSheet, "F", "F", 40)
	return f, nil
}
