// Package kycrelay forwards applicant KYC details downstream and remembers the
// transaction id assigned to each applicant.
package kycrelay

import (
	"context"
	"encoding/json"
	"fmt"

	"kycflow/adapters/forward"
	"kycflow/domain/onboarding"
	"kycflow/internal/errors"
	"kycflow/internal/registry"
	"kycflow/ports"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Relay validates and forwards KYC details
type Relay struct {
	forwarder    ports.Forwarder
	targetURL    string
	transactions *registry.Registry[interface{}]
}

// Result carries the downstream answer
type Result struct {
	TransactionID  interface{}
	ApplicantID    interface{}
	TargetResponse map[string]interface{}
}

// NewRelay creates a relay posting to targetURL
func NewRelay(forwarder ports.Forwarder, targetURL string) *Relay {
	return &Relay{
		forwarder:    forwarder,
		targetURL:    targetURL,
		transactions: registry.New[interface{}](),
	}
}

// Submit checks the required fields of body and forwards it unchanged. Validation
// failures carry INVALID_INPUT; forwarding failures carry EXTERNAL_SERVICE_ERROR.
func (r *Relay) Submit(ctx context.Context, body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, errors.InvalidInput("request body must be a JSON object")
	}
	for _, field := range onboarding.KYCDetailsRequiredFields {
		if !gjson.GetBytes(body, field).Exists() {
			return nil, errors.InvalidInput(fmt.Sprintf("Missing required field: %s", field))
		}
	}

	resp, targetResponse, err := forward.PostForObject(ctx, r.forwarder, r.targetURL, json.RawMessage(body))
	if err != nil {
		log.Error().Err(err).Str("url", r.targetURL).Msg("Failed to forward KYC request")
		return nil, errors.Wrap(err, "Failed to forward KYC request")
	}

	transactionID := resp.Field("TransactionId")
	applicantID := resp.Field("ApplicantId")
	if truthy(transactionID) && truthy(applicantID) {
		r.transactions.Set(applicantID.String(), targetResponse["TransactionId"])
		log.Info().Msgf("Stored Transaction ID: %s for Applicant ID: %s", transactionID.String(), applicantID.String())
	}

	return &Result{
		TransactionID:  targetResponse["TransactionId"],
		ApplicantID:    targetResponse["ApplicantId"],
		TargetResponse: targetResponse,
	}, nil
}

// TransactionID returns the transaction id stored for applicantID
func (r *Relay) TransactionID(applicantID string) (interface{}, bool) {
	return r.transactions.Get(applicantID)
}

// truthy treats null, false, zero, and empty strings, arrays and objects as absent
func truthy(value gjson.Result) bool {
	switch value.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return value.Num != 0
	case gjson.String:
		return value.Str != ""
	case gjson.JSON:
		if value.IsArray() {
			return len(value.Array()) > 0
		}
		return len(value.Map()) > 0
	default:
		return value.Exists()
	}
}
