package handler

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	gmmail "github.com/GaneshVarma1/Goodmoney/internal/mail"
	"github.com/GaneshVarma1/Goodmoney/internal/models"
	"github.com/GaneshVarma1/Goodmoney/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// StatementHandler serves statement export and email delivery.
type StatementHandler struct {
	DB     *gorm.DB
	Mailer *gmmail.Client
}

func NewStatementHandler(db *gorm.DB, mailer *gmmail.Client) *StatementHandler {
	return &StatementHandler{DB: db, Mailer: mailer}
}

func (h *StatementHandler) listAll(c *gin.Context, userID uint) ([]models.Transaction, bool) {
	var txs []models.Transaction
	if err := h.DB.Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return nil, false
	}
	return txs, true
}

// ExportCSV streams the user's transactions as CSV.
func (h *StatementHandler) ExportCSV(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	txs, ok := h.listAll(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so spreadsheet apps detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"Type", "Category", "Amount", "Description", "Date"})

	for i := range txs {
		t := &txs[i]
		writer.Write([]string{
			t.Type,
			t.Category,
			t.Amount.StringFixed(2),
			t.Description,
			t.OccurredAt.Format("2006-01-02"),
		})
	}
}

// ExportXLSX streams the user's transactions as an XLSX workbook.
func (h *StatementHandler) ExportXLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	txs, ok := h.listAll(c, user.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"Type", "Category", "Amount", "Description", "Date"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx := range txs {
		t := &txs[idx]
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.OccurredAt.Format("2006-01-02"))
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}

// ---------- email statement ----------

type emailStatementReq struct {
	Email     string `json:"email" binding:"required"`
	PDFBase64 string `json:"pdf_base64" binding:"required"`
}

// EmailStatement mails a client-rendered statement PDF as an attachment.
func (h *StatementHandler) EmailStatement(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	if !h.Mailer.Configured() {
		util.Error(c, http.StatusInternalServerError, util.CodeConfigErr,
			"mail service credential is not configured, set RESEND_API_KEY")
		return
	}

	var req emailStatementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid email address")
		return
	}

	// validate the payload is real base64 before shipping it to the mail API
	if _, err := base64.StdEncoding.DecodeString(req.PDFBase64); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid PDF payload")
		return
	}

	filename := fmt.Sprintf("statement_%s.pdf", uuid.NewString()[:8])
	err := h.Mailer.Send(c.Request.Context(), gmmail.Message{
		To:      req.Email,
		Subject: "Your Good Money Statement",
		Text:    "Attached is your requested Good Money statement (PDF).",
		Attachments: []gmmail.Attachment{
			{
				Filename:    filename,
				Content:     req.PDFBase64,
				ContentType: "application/pdf",
			},
		},
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to send email")
		return
	}

	util.Success(c, util.Response{
		"message": "statement sent",
	})
}
