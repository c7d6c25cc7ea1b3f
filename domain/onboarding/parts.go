package onboarding

// PartKind names one fragment of a multi-part application
type PartKind string

const (
	PartApplicant PartKind = "applicant"
	PartCompany   PartKind = "company"
	PartDirector  PartKind = "director"
)

// PartCount is the number of distinct kinds that make an application complete
const PartCount = 3

// partMarkers maps the field that identifies a fragment to its kind, in classification order
var partMarkers = []struct {
	Field string
	Kind  PartKind
}{
	{"applicantAadhaar", PartApplicant},
	{"companyCIN", PartCompany},
	{"directorAadhaar", PartDirector},
}

// Classify returns the kind of a fragment by the first marker field it carries
func Classify(payload map[string]interface{}) (PartKind, bool) {
	for _, marker := range partMarkers {
		if _, ok := payload[marker.Field]; ok {
			return marker.Kind, true
		}
	}
	return "", false
}

// DirectorDueFields are the merged-application fields sent as Yes/No and forwarded as booleans
var DirectorDueFields = []string{
	"isDirectorDueMissedLast12Months",
	"isDirectorDueMissedLast18Months",
	"isDirectorDueMissedLast6Months",
}

// KYCDetailsRequiredFields must all be present before KYC details are relayed, checked in order
var KYCDetailsRequiredFields = []string{
	"applicantBankBranchName",
	"applicantFullName",
	"applicantBankAccountNumber",
	"applicantBankName",
	"applicantBankIFSCCode",
	"ApplicantId",
}
