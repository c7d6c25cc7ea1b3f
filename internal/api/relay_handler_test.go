package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"kycflow/adapters/forward"
	"kycflow/internal/aggregate"
	"kycflow/internal/kycrelay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDownstream stands in for the onboarding service
type fakeDownstream struct {
	mu       sync.Mutex
	status   int
	response string
	received []map[string]interface{}
}

func (f *fakeDownstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, body)
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.response))
}

func (f *fakeDownstream) set(status int, response string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.response = status, response
}

func (f *fakeDownstream) last() map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.received) == 0 {
		return nil
	}
	return f.received[len(f.received)-1]
}

func newRelayRouter(t *testing.T) (http.Handler, *fakeDownstream) {
	t.Helper()

	downstream := &fakeDownstream{status: http.StatusOK, response: `{}`}
	server := httptest.NewServer(downstream)
	t.Cleanup(server.Close)

	client := forward.NewClient(server.Client())
	aggregator := aggregate.NewAggregator(aggregate.NewStore(), client, server.URL+"/receive-partial-application")
	relay := kycrelay.NewRelay(client, server.URL+"/onboard-kyc")
	return NewRouter(NewRelayHandler(aggregator, relay)), downstream
}

func TestReceivePartialApplicationFlow(t *testing.T) {
	router, downstream := newRelayRouter(t)
	downstream.set(http.StatusOK, `{"ApplicantId":"APP-77","status":"onboarded"}`)

	rec := doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id=s-1", map[string]interface{}{
		"companyCIN": "U17110MH2015PTC123456", "companyName": "Zenith",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"partial","message":"Partial application received","partsReceived":["company"]}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id=s-1", map[string]interface{}{
		"applicantAadhaar": "345678901234", "applicantFirstName": "Asha",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []interface{}{"company", "applicant"}, decodeBody(t, rec)["partsReceived"])

	rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id=s-1", map[string]interface{}{
		"directorAadhaar":                 "234567890123",
		"isDirectorDueMissedLast6Months":  "Yes",
		"isDirectorDueMissedLast12Months": "No",
		"isDirectorDueMissedLast18Months": "No",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Complete application received and forwarded", body["message"])
	assert.Equal(t, map[string]interface{}{"s-1": "APP-77"}, body["ApplicantId"])
	assert.Equal(t, "onboarded", body["targetResponse"].(map[string]interface{})["status"])

	forwarded := downstream.last()
	assert.Equal(t, true, forwarded["isDirectorDueMissedLast6Months"])
	assert.Equal(t, false, forwarded["isDirectorDueMissedLast12Months"])
	assert.Equal(t, "Zenith", forwarded["companyName"])
	assert.Equal(t, "Asha", forwarded["applicantFirstName"])

	rec = doRequest(t, router, http.MethodGet, "/applications/s-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"session_id":"s-1","ApplicantId":"APP-77"}`, rec.Body.String())

	// the session was cleared, so a new fragment starts over
	rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id=s-1", map[string]interface{}{
		"directorAadhaar": "234567890123",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []interface{}{"director"}, decodeBody(t, rec)["partsReceived"])
}

func TestReceivePartialReportsEveryForwardedSession(t *testing.T) {
	router, downstream := newRelayRouter(t)

	complete := func(sessionID, applicantID string) map[string]interface{} {
		downstream.set(http.StatusOK, `{"ApplicantId":"`+applicantID+`"}`)
		var rec *httptest.ResponseRecorder
		for _, part := range []map[string]interface{}{{"applicantAadhaar": "1"}, {"companyCIN": "C"}, {"directorAadhaar": "D"}} {
			rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id="+sessionID, part)
		}
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeBody(t, rec)
	}

	first := complete("s-1", "APP-1")
	assert.Equal(t, map[string]interface{}{"s-1": "APP-1"}, first["ApplicantId"])

	second := complete("s-2", "APP-2")
	assert.Equal(t, map[string]interface{}{"s-1": "APP-1", "s-2": "APP-2"}, second["ApplicantId"])
}

func TestReceivePartialDefaultSession(t *testing.T) {
	router, _ := newRelayRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/receive-partial-application", map[string]interface{}{"applicantAadhaar": "1"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id="+aggregate.DefaultSessionID, map[string]interface{}{"companyCIN": "C"})
	assert.Equal(t, []interface{}{"applicant", "company"}, decodeBody(t, rec)["partsReceived"])
}

func TestReceivePartialErrors(t *testing.T) {
	router, downstream := newRelayRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/receive-partial-application?session_id=bad", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decodeBody(t, rec)["status"])

	rec = doRequest(t, router, http.MethodPost, "/receive-partial-application?session_id=bad", []byte(`null`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	downstream.set(http.StatusServiceUnavailable, `{"error":"down"}`)
	for _, part := range []map[string]interface{}{{"applicantAadhaar": "1"}, {"companyCIN": "C"}} {
		rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id=s-2", part)
		require.Equal(t, http.StatusAccepted, rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id=s-2", map[string]interface{}{"directorAadhaar": "D"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "503")

	// the complete session is kept, so a retry forwards again
	downstream.set(http.StatusOK, `{"ApplicantId":"APP-2"}`)
	rec = doJSON(t, router, http.MethodPost, "/receive-partial-application?session_id=s-2", map[string]interface{}{"directorAadhaar": "D"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"s-2": "APP-2"}, decodeBody(t, rec)["ApplicantId"])

	rec = doRequest(t, router, http.MethodGet, "/applications/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func kycDetails() map[string]interface{} {
	return map[string]interface{}{
		"applicantBankBranchName":    "Fort",
		"applicantFullName":          "Asha Rao",
		"applicantBankAccountNumber": 123456789012,
		"applicantBankName":          "State Bank of India",
		"applicantBankIFSCCode":      "SBIN0001234",
		"ApplicantId":                "APP-001",
	}
}

func TestReceiveKYCDetails(t *testing.T) {
	router, downstream := newRelayRouter(t)
	downstream.set(http.StatusOK, `{"TransactionId":"TX-5","ApplicantId":"APP-001"}`)

	rec := doJSON(t, router, http.MethodPost, "/receive-kyc-details", kycDetails())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"status": "success",
		"message": "KYC details forwarded successfully",
		"TransactionId": "TX-5",
		"ApplicantId": "APP-001",
		"targetResponse": {"TransactionId":"TX-5","ApplicantId":"APP-001"}
	}`, rec.Body.String())
	assert.Equal(t, "Fort", downstream.last()["applicantBankBranchName"])

	rec = doRequest(t, router, http.MethodGet, "/kyc-transactions/APP-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ApplicantId":"APP-001","TransactionId":"TX-5"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/kyc-transactions/APP-404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReceiveKYCDetailsErrors(t *testing.T) {
	router, downstream := newRelayRouter(t)

	details := kycDetails()
	delete(details, "applicantFullName")
	rec := doJSON(t, router, http.MethodPost, "/receive-kyc-details", details)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Missing required field: applicantFullName"}`, rec.Body.String())

	downstream.set(http.StatusBadGateway, `{"error":"down"}`)
	rec = doJSON(t, router, http.MethodPost, "/receive-kyc-details", kycDetails())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "Failed to forward KYC request: ")
}
