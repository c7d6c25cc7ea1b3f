// Package normalize maps spreadsheet rows onto the onboarding records served by the API.
package normalize

import (
	"kycflow/adapters/coercer"
	"kycflow/adapters/excel"
	"kycflow/domain/onboarding"
	"kycflow/internal/errors"
)

// Normalizer converts raw rows into typed records
type Normalizer struct {
	coercer *coercer.TypeCoercer
}

// New creates a normalizer using the given coercer
func New(c *coercer.TypeCoercer) *Normalizer {
	return &Normalizer{coercer: c}
}

// NewDefault creates a normalizer with the Yes/No coercion convention
func NewDefault() *Normalizer {
	return New(coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()))
}

// Records converts every row of a sheet; the first failing row aborts the conversion
func (n *Normalizer) Records(data *excel.SheetData) ([]onboarding.Record, error) {
	records := make([]onboarding.Record, 0, len(data.Rows))
	for i, row := range data.Rows {
		record, err := n.Record(row)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to normalize record %d", i+1)
		}
		records = append(records, record)
	}
	return records, nil
}

// Record converts a combined company/applicant/director row
func (n *Normalizer) Record(row excel.RawRowData) (onboarding.Record, error) {
	company, err := n.Company(row)
	if err != nil {
		return onboarding.Record{}, err
	}
	director, err := n.Director(row)
	if err != nil {
		return onboarding.Record{}, err
	}
	applicant, err := n.Applicant(row)
	if err != nil {
		return onboarding.Record{}, err
	}

	return onboarding.Record{
		Company:   company,
		Applicant: applicant,
		Directors: []onboarding.Director{director},
	}, nil
}

// Company reads the company columns of a row
func (n *Normalizer) Company(row excel.RawRowData) (onboarding.Company, error) {
	r := n.reader(row)
	company := onboarding.Company{
		Name:    r.str("Company Name"),
		CIN:     r.str("CIN"),
		GSTIN:   r.str("GSTIN"),
		PAN:     r.str("Company PAN"),
		Phone:   r.integer("Company Phone"),
		Email:   r.str("Company Email"),
		Address: r.str("Company Adderess"),
		MSME:    r.str("Company MSME"),
	}
	return company, r.err
}

// Director reads the director columns of a row
func (n *Normalizer) Director(row excel.RawRowData) (onboarding.Director, error) {
	r := n.reader(row)
	director := onboarding.Director{
		DirectorCount:          r.integer("No. of Directors"),
		FirstName:              r.str("Director First Name"),
		LastName:               r.str("Director Last Name"),
		Email:                  r.str("Director Email"),
		Phone:                  r.integer("Director Phone"),
		Designation:            r.str("Director Designation"),
		PAN:                    r.str("Director PAN"),
		Aadhaar:                r.str("Director Aadhaar"),
		CurrentLoans:           r.integer("Total Current No. of Loans"),
		CurrentODs:             r.integer("Total Current No. of ODs"),
		CurrentLoanOutstanding: r.integer("Total Current Loan outstanding"),
		CurrentTotalEMI:        r.integer("Current total EMI"),
		DuesMissed6Months:      r.flag("Any dues missed in last 6 months"),
		DuesMissed12Months:     r.flag("Any dues missed in last 12 months"),
		DuesMissed18Months:     r.flag("Any dues missed in last 18 months"),
	}
	return director, r.err
}

// Applicant reads the applicant columns of a row
func (n *Normalizer) Applicant(row excel.RawRowData) (onboarding.Applicant, error) {
	r := n.reader(row)
	applicant := onboarding.Applicant{
		FirstName:   r.str("First Name"),
		LastName:    r.str("Last Name"),
		Email:       r.str("Email"),
		Phone:       r.integer("Phone"),
		Designation: r.str("Designation"),
		Aadhar:      r.str("Aadhar"),
	}
	return applicant, r.err
}

// Bank reads a Bank_Data row
func (n *Normalizer) Bank(row excel.RawRowData) (onboarding.Bank, error) {
	r := n.reader(row)
	bank := onboarding.Bank{
		ApplicantID:   r.str("Applicant id"),
		FullName:      r.str("Name"),
		AccountNumber: r.integer("Account No."),
		BankName:      r.str("Bank Name"),
		IFSCCode:      r.str("IFSC Code"),
		BranchName:    r.str("Branch Name"),
	}
	return bank, r.err
}

func (n *Normalizer) reader(row excel.RawRowData) *cellReader {
	return &cellReader{row: row, coercer: n.coercer}
}

// cellReader reads typed cells from a row and keeps the first error it meets
type cellReader struct {
	row     excel.RawRowData
	coercer *coercer.TypeCoercer
	err     error
}

func (r *cellReader) str(column string) string {
	if r.err != nil {
		return ""
	}
	value, err := r.row.Get(column)
	if err != nil {
		r.err = err
	}
	return value
}

func (r *cellReader) integer(column string) int64 {
	raw := r.str(column)
	if r.err != nil {
		return 0
	}
	value, err := r.coercer.Int(column, raw)
	if err != nil {
		r.err = err
	}
	return value
}

func (r *cellReader) flag(column string) bool {
	raw := r.str(column)
	if r.err != nil {
		return false
	}
	return r.coercer.Flag(raw)
}
