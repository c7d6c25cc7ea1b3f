// Package onboarding defines the records exchanged between the onboarding services.
// JSON keys follow the downstream contracts verbatim, including their spelling.
package onboarding

// Company is the "Company Details" block of a converted workbook row
type Company struct {
	Name    string `json:"Company Name"`
	CIN     string `json:"CIN"`
	GSTIN   string `json:"GSTIN"`
	PAN     string `json:"Company PAN"`
	Phone   int64  `json:"Company Phone"`
	Email   string `json:"Company Email"`
	Address string `json:"Company Adderess"`
	MSME    string `json:"Company MSME"`
}

// Applicant is the person filing the application
type Applicant struct {
	FirstName   string `json:"First Name"`
	LastName    string `json:"Last Name"`
	Email       string `json:"Email"`
	Phone       int64  `json:"Phone"`
	Designation string `json:"Designation"`
	Aadhar      string `json:"Aadhar"`
}

// Director carries identity, credit exposure and repayment history of one director
type Director struct {
	DirectorCount          int64  `json:"No. of directors"`
	FirstName              string `json:"First Name"`
	LastName               string `json:"Last Name"`
	Email                  string `json:"Email"`
	Phone                  int64  `json:"Phone"`
	Designation            string `json:"Designation"`
	PAN                    string `json:"PAN"`
	Aadhaar                string `json:"Aadhaar"`
	CurrentLoans           int64  `json:"Total Current No. of Loans"`
	CurrentODs             int64  `json:"Total Current No. of ODs"`
	CurrentLoanOutstanding int64  `json:"Total Current Loan Outstanding"`
	CurrentTotalEMI        int64  `json:"Current Total EMI"`
	DuesMissed6Months      bool   `json:"Any dues missed in last 6 months"`
	DuesMissed12Months     bool   `json:"Any dues missed in last 12 months"`
	DuesMissed18Months     bool   `json:"Any dues missed in last 18 months"`
}

// Record is one converted workbook row
type Record struct {
	Company   Company    `json:"Company Details"`
	Applicant Applicant  `json:"Applicant"`
	Directors []Director `json:"Directors"`
}

// Bank holds the account an applicant is onboarded with
type Bank struct {
	ApplicantID   string `json:"ApplicantId"`
	FullName      string `json:"applicantFullName"`
	AccountNumber int64  `json:"applicantBankAccountNumber"`
	BankName      string `json:"applicantBankName"`
	IFSCCode      string `json:"applicantBankIFSCCode"`
	BranchName    string `json:"applicantBankBranchName"`
}
