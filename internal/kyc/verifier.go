// Package kyc holds the stub KYC verifier that checks a customer against a fixed table.
package kyc

import (
	"unicode/utf8"

	"kycflow/internal/errors"
)

const aadharLength = 12

const (
	MsgIncompleteDetails = "KYC Verification failed: Incomplete details"
	MsgInvalidAadhar     = "KYC Verification failed: Invalid Aadhar Number"
	MsgCustomerNotFound  = "KYC Verification failed: Customer not found"
	MsgVerified          = "KYC Verification successful"
	MsgNotVerified       = "KYC Verification failed"
)

// Request is a verification request. CustomerID and Name are mandatory;
// a nil pointer means the field was absent from the body.
type Request struct {
	CustomerID   *string `json:"customer_id"`
	Name         *string `json:"name"`
	AadharNumber *string `json:"Aadhar_Number"`
	DocumentType *string `json:"document_type"`
}

// Result is the verification outcome
type Result struct {
	IsVerified bool   `json:"is_verified"`
	Message    string `json:"message"`
}

// Customer is a known customer record
type Customer struct {
	Name         string
	AadharNumber string
	DocumentType string
}

// SampleCustomers is the built-in verification table
func SampleCustomers() map[string]Customer {
	return map[string]Customer{
		"ABC123": {Name: "John Doe", AadharNumber: "123456789012", DocumentType: "Aadhar"},
		"XYZ789": {Name: "Jane Smith", AadharNumber: "123456789012", DocumentType: "Aadhar"},
	}
}

// Verifier checks requests against a customer table. It holds no mutable state.
type Verifier struct {
	customers map[string]Customer
}

// NewVerifier creates a verifier over customers
func NewVerifier(customers map[string]Customer) *Verifier {
	return &Verifier{customers: customers}
}

// Validate reports a missing mandatory field
func (r Request) Validate() error {
	if r.CustomerID == nil {
		return errors.InvalidInput("field required: customer_id")
	}
	if r.Name == nil {
		return errors.InvalidInput("field required: name")
	}
	return nil
}

// Verify runs the checks in order: completeness, Aadhar length, customer lookup, field match
func (v *Verifier) Verify(req Request) Result {
	customerID, name := value(req.CustomerID), value(req.Name)
	aadhar, docType := value(req.AadharNumber), value(req.DocumentType)

	if customerID == "" || name == "" || aadhar == "" || docType == "" {
		return Result{Message: MsgIncompleteDetails}
	}
	if utf8.RuneCountInString(aadhar) != aadharLength {
		return Result{Message: MsgInvalidAadhar}
	}

	customer, ok := v.customers[customerID]
	if !ok {
		return Result{Message: MsgCustomerNotFound}
	}

	if name == customer.Name && aadhar == customer.AadharNumber && docType == customer.DocumentType {
		return Result{IsVerified: true, Message: MsgVerified}
	}
	return Result{Message: MsgNotVerified}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
