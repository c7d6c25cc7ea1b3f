package forward

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kycflow/internal/errors"
	"kycflow/internal/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	var gotBody map[string]interface{}
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ApplicantId":"APP-7","nested":{"TransactionId":"TX-1"}}`))
	}))
	defer server.Close()

	ctx := requestid.NewContext(context.Background(), "req-123")
	resp, err := NewClient(nil).PostJSON(ctx, server.URL+"/onboard", map[string]string{"a": "b"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.True(t, resp.Success())
	assert.Equal(t, "APP-7", resp.Field("ApplicantId").String())
	assert.Equal(t, "TX-1", resp.Field("nested.TransactionId").String())
	assert.Equal(t, "b", gotBody["a"])
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "req-123", gotHeader.Get(requestid.Header))
}

func TestPostJSONNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(nil).PostJSON(context.Background(), url, map[string]string{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestPostJSONUnencodablePayload(t *testing.T) {
	_, err := NewClient(nil).PostJSON(context.Background(), "http://127.0.0.1:1", map[string]interface{}{"ch": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}

func TestPostForObject(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		errorMsg string
	}{
		{"object", http.StatusOK, `{"ok":true}`, ""},
		{"failure status", http.StatusBadGateway, `{"error":"down"}`, "502"},
		{"array body", http.StatusOK, `["not","an","object"]`, "not a JSON object"},
		{"text body", http.StatusOK, `plain text`, "not a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, object, err := PostForObject(context.Background(), NewClient(server.Client()), server.URL, nil)
			if tt.errorMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, true, object["ok"])
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
