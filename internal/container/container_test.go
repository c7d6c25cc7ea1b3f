package container

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kycflow/internal/config"
	"kycflow/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	v := viper.New()
	v.Set("DATA_DIR", t.TempDir())
	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)

	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestServersForEveryService(t *testing.T) {
	c := newTestContainer(t)

	addrs := map[string]string{
		config.ServiceConvert: "127.0.0.1:5000",
		config.ServiceBank:    "127.0.0.1:5001",
		config.ServiceRelay:   "0.0.0.0:5003",
		config.ServiceKYC:     "0.0.0.0:8000",
	}
	for _, service := range Services {
		server, err := c.Server(service)
		require.NoError(t, err, service)
		assert.Equal(t, addrs[service], server.Addr())
	}

	_, err := c.Server("billing")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestHandlersServeTheirRoutes(t *testing.T) {
	c := newTestContainer(t)

	routes := map[string]string{
		config.ServiceConvert: "/list-files",
		config.ServiceBank:    "/bank-data/APP-001",
		config.ServiceRelay:   "/kyc-transactions/APP-001",
	}
	for service, path := range routes {
		handler, err := c.Handler(service)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code, service)
		assert.Contains(t, []int{http.StatusOK, http.StatusNotFound}, rec.Code, service)
	}
}

func TestBankWorkbookPath(t *testing.T) {
	c := newTestContainer(t)
	assert.Equal(t, c.Config.Data.Dir+"/sample_excel_api.xlsx", c.BankWorkbookPath())

	c.Config.Data.BankWorkbook = "/srv/bank.xlsx"
	assert.Equal(t, "/srv/bank.xlsx", c.BankWorkbookPath())
}
