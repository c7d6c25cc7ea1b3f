package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var applicationHeader = []interface{}{
	"Company Name", "CIN", "GSTIN", "Company PAN", "Company Phone", "Company Email", "Company Adderess", "Company MSME",
	"No. of Directors", "Director First Name", "Director Last Name", "Director Email", "Director Phone",
	"Director Designation", "Director PAN", "Director Aadhaar", "Total Current No. of Loans", "Total Current No. of ODs",
	"Total Current Loan outstanding", "Current total EMI", "Any dues missed in last 6 months",
	"Any dues missed in last 12 months", "Any dues missed in last 18 months",
	"First Name", "Last Name", "Email", "Phone", "Designation", "Aadhar",
}

func applicationRow(company string) []interface{} {
	return []interface{}{
		company, "U17110MH2015PTC123456", "27AABCZ1234F1Z5", "AABCZ1234F", 9876543210, "accounts@zenith.example",
		"12 Mill Road, Mumbai", "UDYAM-MH-01-0000001",
		2, "Ravi", "Menon", "ravi@zenith.example", "9123456780", "Managing Director", "ABCPM1234K", "234567890123",
		3, 1, 1500000, 45000, "No", "Yes", "No",
		"Asha", "Rao", "asha@zenith.example", "9000000001", "CFO", "345678901234",
	}
}

var bankHeader = []interface{}{"Applicant id", "Name", "Account No.", "Bank Name", "IFSC Code", "Branch Name"}

// writeWorkbook saves one sheet per entry in order; the first row of each sheet is the header
func writeWorkbook(t *testing.T, path string, order []string, sheets map[string][][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, handler http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return doRequest(t, handler, method, path, body)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
