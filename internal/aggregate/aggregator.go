package aggregate

import (
	"context"

	"kycflow/adapters/coercer"
	"kycflow/adapters/forward"
	"kycflow/domain/onboarding"
	"kycflow/internal/errors"
	"kycflow/internal/registry"
	"kycflow/ports"

	"github.com/rs/zerolog/log"
)

// Aggregator completes multi-part applications and forwards them downstream
type Aggregator struct {
	store        *Store
	forwarder    ports.Forwarder
	targetURL    string
	coercer      *coercer.TypeCoercer
	applicantIDs *registry.Registry[interface{}]
}

// Result is the outcome of receiving one fragment
type Result struct {
	SessionID     string
	PartsReceived []onboarding.PartKind
	Complete      bool
	// Set only when Complete
	ProcessedPayload map[string]interface{}
	TargetResponse   map[string]interface{}
	ApplicantID      interface{}
	// ApplicantIDs holds every forwarded session's id, this one included
	ApplicantIDs map[string]interface{}
}

// NewAggregator creates an aggregator forwarding complete applications to targetURL
func NewAggregator(store *Store, forwarder ports.Forwarder, targetURL string) *Aggregator {
	return &Aggregator{
		store:        store,
		forwarder:    forwarder,
		targetURL:    targetURL,
		coercer:      coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		applicantIDs: registry.New[interface{}](),
	}
}

// Receive stores one fragment. When the session becomes complete the merged
// application is forwarded and the session cleared; if forwarding fails the
// session is left complete so the next fragment retries the forward.
func (a *Aggregator) Receive(ctx context.Context, sessionID string, payload map[string]interface{}) (*Result, error) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	submission := a.store.Add(sessionID, payload)
	if submission.Classified {
		log.Info().Str("session_id", sessionID).Str("part", string(submission.Kind)).Msg("Received partial payload")
	} else {
		log.Warn().Str("session_id", sessionID).Msg("Received payload without a known part marker")
	}
	log.Debug().Interface("payload", payload).Msgf("Partial payload for session %s", sessionID)

	result := &Result{
		SessionID:     sessionID,
		PartsReceived: submission.Parts,
	}
	if !submission.Complete() {
		return result, nil
	}

	processed := a.convertDueFlags(submission.Merged)

	_, targetResponse, err := forward.PostForObject(ctx, a.forwarder, a.targetURL, processed)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Error forwarding request")
		return nil, errors.Wrap(err, "failed to forward complete application")
	}
	log.Info().Interface("response", targetResponse).Str("session_id", sessionID).Msg("Complete application forwarded")

	applicantID := targetResponse["ApplicantId"]
	a.applicantIDs.Set(sessionID, applicantID)
	a.store.Remove(sessionID)

	result.Complete = true
	result.ProcessedPayload = processed
	result.TargetResponse = targetResponse
	result.ApplicantID = applicantID
	result.ApplicantIDs = a.applicantIDs.Snapshot()
	return result, nil
}

// ApplicantID returns the id the downstream assigned to a forwarded session
func (a *Aggregator) ApplicantID(sessionID string) (interface{}, bool) {
	return a.applicantIDs.Get(sessionID)
}

// convertDueFlags turns the Yes/No director-due fields into booleans on a copy of payload
func (a *Aggregator) convertDueFlags(payload map[string]interface{}) map[string]interface{} {
	processed := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		processed[key] = value
	}
	for _, field := range onboarding.DirectorDueFields {
		if value, ok := processed[field]; ok {
			processed[field] = a.coercer.FlagValue(value)
		}
	}
	return processed
}
