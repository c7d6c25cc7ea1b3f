package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"kycflow/adapters/excel"
	"kycflow/internal/normalize"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ConvertHandler serves workbooks from a data directory as onboarding records
type ConvertHandler struct {
	dataDir    string
	normalizer *normalize.Normalizer
}

// NewConvertHandler creates a handler reading workbooks from dataDir
func NewConvertHandler(dataDir string, normalizer *normalize.Normalizer) *ConvertHandler {
	return &ConvertHandler{dataDir: dataDir, normalizer: normalizer}
}

// Register adds the convert routes
func (h *ConvertHandler) Register(r gin.IRouter) {
	r.GET("/convert/:filename", h.Convert)
	r.GET("/list-files", h.ListFiles)
}

// Convert returns the first sheet of a workbook as an array of records
func (h *ConvertHandler) Convert(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file name"})
		return
	}

	path := filepath.Join(h.dataDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("File %s not found", filename)})
		return
	}
	if !excel.IsAllowedExtension(filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	data, err := excel.NewDataReader(path).ReadSheet("")
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Failed to read workbook")
		abortWithError(c, err)
		return
	}
	records, err := h.normalizer.Records(data)
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Failed to convert workbook")
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// ListFiles lists the workbooks in the data directory
func (h *ConvertHandler) ListFiles(c *gin.Context) {
	files, err := excel.ListWorkbooks(h.dataDir)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"excel_files": files})
}
