package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"kycflow/adapters/excel"
	"kycflow/internal/normalize"
	"kycflow/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const bankApplicantColumn = "Applicant id"

// BankHandler looks up an applicant's bank row and pushes it to the onboarding service
type BankHandler struct {
	workbook   string
	sheet      string
	onboardURL string
	forwarder  ports.Forwarder
	normalizer *normalize.Normalizer
}

// NewBankHandler creates a handler reading sheet from workbook. onboardURL may
// contain {applicant_id}.
func NewBankHandler(workbook, sheet, onboardURL string, forwarder ports.Forwarder, normalizer *normalize.Normalizer) *BankHandler {
	return &BankHandler{
		workbook:   workbook,
		sheet:      sheet,
		onboardURL: onboardURL,
		forwarder:  forwarder,
		normalizer: normalizer,
	}
}

// Register adds the bank routes
func (h *BankHandler) Register(r gin.IRouter) {
	r.GET("/bank-data/:applicant_id", h.BankData)
}

// BankData returns the bank details of an applicant after forwarding them. A failed
// forward still returns the details, with 206 and the reason.
func (h *BankHandler) BankData(c *gin.Context) {
	applicantID := c.Param("applicant_id")

	if _, err := os.Stat(h.workbook); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	data, err := excel.NewDataReader(h.workbook).ReadSheet(h.sheet)
	if err != nil {
		abortWithError(c, err)
		return
	}
	rows, err := data.Filter(bankApplicantColumn, applicantID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Applicant bank data not found"})
		return
	}

	bank, err := h.normalizer.Bank(rows[0])
	if err != nil {
		abortWithError(c, err)
		return
	}

	target := strings.ReplaceAll(h.onboardURL, "{applicant_id}", url.PathEscape(applicantID))
	resp, err := h.forwarder.PostJSON(c.Request.Context(), target, bank)
	if err != nil {
		log.Error().Err(err).Str("applicant_id", applicantID).Msg("Network error when sending bank data")
		c.JSON(http.StatusPartialContent, gin.H{
			"data":  bank,
			"error": fmt.Sprintf("Network error when sending data: %v", err),
		})
		return
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("applicant_id", applicantID).Msg("Target server rejected bank data")
		c.JSON(http.StatusPartialContent, gin.H{
			"data":    bank,
			"warning": fmt.Sprintf("Failed to send data to target server. Status code: %d", resp.StatusCode),
		})
		return
	}

	c.JSON(http.StatusOK, bank)
}
