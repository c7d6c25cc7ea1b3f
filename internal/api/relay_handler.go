package api

import (
	"net/http"

	"kycflow/internal/aggregate"
	"kycflow/internal/errors"
	"kycflow/internal/kycrelay"

	"github.com/gin-gonic/gin"
)

// RelayHandler receives application fragments and KYC details and relays them downstream
type RelayHandler struct {
	aggregator *aggregate.Aggregator
	kyc        *kycrelay.Relay
}

// NewRelayHandler creates the relay routes over an aggregator and a KYC relay
func NewRelayHandler(aggregator *aggregate.Aggregator, kyc *kycrelay.Relay) *RelayHandler {
	return &RelayHandler{aggregator: aggregator, kyc: kyc}
}

// Register adds the relay routes
func (h *RelayHandler) Register(r gin.IRouter) {
	r.POST("/receive-partial-application", h.ReceivePartial)
	r.GET("/applications/:session_id", h.GetApplication)
	r.POST("/receive-kyc-details", h.ReceiveKYCDetails)
	r.GET("/kyc-transactions/:applicant_id", h.GetKYCTransaction)
}

// ReceivePartial stores one fragment of an application
func (h *RelayHandler) ReceivePartial(c *gin.Context) {
	sessionID := c.DefaultQuery("session_id", aggregate.DefaultSessionID)

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		relayError(c, http.StatusBadRequest, err.Error())
		return
	}
	if payload == nil {
		relayError(c, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	result, err := h.aggregator.Receive(c.Request.Context(), sessionID, payload)
	if err != nil {
		relayError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !result.Complete {
		c.JSON(http.StatusAccepted, gin.H{
			"status":        "partial",
			"message":       "Partial application received",
			"partsReceived": result.PartsReceived,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "success",
		"message":          "Complete application received and forwarded",
		"processedPayload": result.ProcessedPayload,
		"targetResponse":   result.TargetResponse,
		"ApplicantId":      result.ApplicantIDs,
	})
}

// GetApplication returns the applicant id assigned to a forwarded session
func (h *RelayHandler) GetApplication(c *gin.Context) {
	sessionID := c.Param("session_id")
	applicantID, ok := h.aggregator.ApplicantID(sessionID)
	if !ok {
		err := errors.NotFound("session " + sessionID)
		relayError(c, errors.HTTPStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "ApplicantId": applicantID})
}

// ReceiveKYCDetails validates and forwards an applicant's KYC details
func (h *RelayHandler) ReceiveKYCDetails(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		relayError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.kyc.Submit(c.Request.Context(), body)
	if err != nil {
		relayError(c, errors.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"message":        "KYC details forwarded successfully",
		"TransactionId":  result.TransactionID,
		"ApplicantId":    result.ApplicantID,
		"targetResponse": result.TargetResponse,
	})
}

// GetKYCTransaction returns the transaction id stored for an applicant
func (h *RelayHandler) GetKYCTransaction(c *gin.Context) {
	applicantID := c.Param("applicant_id")
	transactionID, ok := h.kyc.TransactionID(applicantID)
	if !ok {
		err := errors.NotFound("transaction for applicant " + applicantID)
		relayError(c, errors.HTTPStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ApplicantId": applicantID, "TransactionId": transactionID})
}

func relayError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}
