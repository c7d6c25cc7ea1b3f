package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"kycflow/internal/errors"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// AllowedExtensions lists the workbook extensions the services will serve
var AllowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// IsAllowedExtension reports whether name carries a workbook extension (case-insensitive)
func IsAllowedExtension(name string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ListWorkbooks returns the names of files in dir with an allowed extension, sorted by name
func ListWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsAllowedExtension(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// ReadSheet reads one sheet into structured form. An empty sheet name selects the
// first sheet of the workbook; CSV sources ignore the name.
func (r *DataReader) ReadSheet(sheet string) (*SheetData, error) {
	log.Debug().Msgf("[DataReader] Reading %s file %s (sheet %q)", r.fileType, r.filePath, sheet)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData(sheet)
	}
}

// SheetNames lists the sheets of an Excel workbook in workbook order. CSV files have none.
func (r *DataReader) SheetNames() ([]string, error) {
	if r.fileType == "csv" {
		return []string{}, nil
	}
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.SheetError("failed to open Excel file", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (r *DataReader) readExcelData(sheet string) (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.SheetError("failed to open Excel file", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.SheetError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	// Raw values keep numbers unformatted ("9876543210" rather than "9.88E+09")
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.SheetError("failed to read sheet "+sheet, err)
	}
	log.Debug().Msgf("[DataReader] Sheet %s read in %.2fms (%d rows)", sheet,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	data := processRows(rows)
	data.Name = sheet
	return data, nil
}

func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.SheetError("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.SheetError("failed to read CSV file", err)
	}

	return processRows(rows), nil
}

// processRows converts raw string rows into SheetData. The first row is the header;
// blank rows are skipped and duplicate headers keep their first column.
func processRows(rows [][]string) *SheetData {
	data := &SheetData{}
	if len(rows) == 0 {
		return data
	}

	headerIndex := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}
		if _, seen := headerIndex[header]; seen {
			continue
		}
		headerIndex[header] = i
		data.Headers = append(data.Headers, header)
	}

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowData := make(RawRowData, len(data.Headers))
		for _, header := range data.Headers {
			idx := headerIndex[header]
			if idx < len(row) {
				rowData[header] = strings.TrimSpace(row[idx])
			} else {
				rowData[header] = ""
			}
		}
		data.Rows = append(data.Rows, rowData)
	}

	log.Debug().Msgf("[DataReader] Processed %d columns, %d rows", len(data.Headers), len(data.Rows))
	return data
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
