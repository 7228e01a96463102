package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResolvedInput is the classified form of a request input. Exactly one
// group of fields is populated depending on Variant.
type ResolvedInput struct {
	Variant InputVariant

	// InputUpload / InputLocalFile
	FileBytes []byte
	Filename  string
	FileType  FileType

	// InputRemoteObject
	Bucket string
	Key    string

	// InputInlineJSON
	RawJSON string

	// InputStoredRecord
	FallbackKey string

	// PDF decryption password, carried through to the loader.
	PDFPassword string
}

// NormalizedDocument is the canonical structured form every input
// converges to before prompting. StructuredData is always a JSON
// object: PDF text sits under "raw_text", top-level JSON arrays are
// wrapped under "records".
type NormalizedDocument struct {
	StructuredData   map[string]interface{} `json:"structured_data"`
	Origin           Origin                 `json:"origin"`
	SourceIdentifier string                 `json:"source_identifier"`
}

// PromptSpec is a rendered prompt ready for inference.
type PromptSpec struct {
	Template string
	Text     string
}

// CustomerDetails holds identity fields extracted from the bureau data.
type CustomerDetails struct {
	PAN          *string `json:"pan"`
	Name         *string `json:"name"`
	DateOfBirth  *string `json:"date_of_birth"`
	Gender       *string `json:"gender"`
	Age          *int    `json:"age"`
	PhoneNumber  *string `json:"phone_number"`
	EmailAddress *string `json:"email_address"`
}

// CreditScore holds the bureau score and its interpretation.
type CreditScore struct {
	CreditScore         *int    `json:"credit_score"`
	ScoreStatus         *string `json:"score_status"`
	ScoreInterpretation *string `json:"score_interpretation"`
}

// RiskAnalysis holds the risk category and lending recommendation.
type RiskAnalysis struct {
	RiskCategory    *string `json:"risk_category"`
	SuggestedAction *string `json:"suggested_action"`
}

// AccountSummary aggregates account counts across the report.
type AccountSummary struct {
	TotalAccounts      *int `json:"total_accounts"`
	ActiveAccounts     *int `json:"active_accounts"`
	ClosedAccounts     *int `json:"closed_accounts"`
	OverdueAccounts    *int `json:"overdue_accounts"`
	WrittenOffAccounts *int `json:"written_off_accounts"`
}

// AccountDetail describes a single credit account.
type AccountDetail struct {
	Type           *string  `json:"type"`
	Ownership      *string  `json:"ownership"`
	CurrentBalance *float64 `json:"current_balance"`
	DPD            *string  `json:"dpd"`
	PaymentHistory *string  `json:"payment_history"`
}

// CreditEnquiries summarizes recent credit enquiries.
type CreditEnquiries struct {
	TotalEnquiriesLast6Months *int              `json:"total_enquiries_last_6_months"`
	HighFrequencyFlag         *bool             `json:"high_frequency_flag"`
	EnquiryDetails            []json.RawMessage `json:"enquiry_details"`
}

// FlagsAndObservations holds red flags and analyst observations.
type FlagsAndObservations struct {
	CriticalFlags       []string `json:"critical_flags"`
	GeneralObservations *string  `json:"general_observations"`
}

// CreditReport is the structured report schema the model is asked to
// produce. Every field is nullable: the prompt instructs the model to
// emit null rather than invent data.
type CreditReport struct {
	ReportGeneratedDate  *string               `json:"report_generated_date"`
	Customer             *CustomerDetails      `json:"customer"`
	CreditScore          *CreditScore          `json:"credit_score"`
	RiskAnalysis         *RiskAnalysis         `json:"risk_analysis"`
	AccountSummary       *AccountSummary       `json:"account_summary"`
	AccountDetails       []AccountDetail       `json:"account_details"`
	CreditEnquiries      *CreditEnquiries      `json:"credit_enquiries"`
	FlagsAndObservations *FlagsAndObservations `json:"flags_and_observations"`
	Remarks              *string               `json:"remarks"`
}

// PANValue returns the extracted PAN, or empty string when absent.
func (r *CreditReport) PANValue() string {
	if r == nil || r.Customer == nil || r.Customer.PAN == nil {
		return ""
	}
	return *r.Customer.PAN
}

// ReportRecord is the persisted form of a generated report. Records
// are append-only: regenerating for the same PAN inserts a new row.
type ReportRecord struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	PAN              string          `db:"pan" json:"pan"`
	Origin           Origin          `db:"origin" json:"origin"`
	SourceIdentifier string          `db:"source_identifier" json:"source_identifier"`
	StructuredData   json.RawMessage `db:"structured_data" json:"structured_data"`
	ReportText       string          `db:"report_text" json:"report_text"`
	ReportParsed     json.RawMessage `db:"report_parsed" json:"report_parsed,omitempty"`
	ModelUsed        string          `db:"model_used" json:"model_used"`
	FileBucket       *string         `db:"file_bucket" json:"file_bucket,omitempty"`
	FileKey          *string         `db:"file_key" json:"file_key,omitempty"`
	RequesterID      *string         `db:"requester_id" json:"requester_id,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// ReportOutcome is the orchestrator's result: the report plus any
// warnings accumulated on the way. Partial is set when the report was
// generated but could not be durably persisted.
type ReportOutcome struct {
	Record     *ReportRecord       `json:"record"`
	Report     *CreditReport       `json:"report,omitempty"`
	ReportText string              `json:"report_text"`
	FileURL    string              `json:"file_url,omitempty"`
	Document   *NormalizedDocument `json:"-"`
	Warnings   []string            `json:"warnings,omitempty"`
	Partial    bool                `json:"partial_success"`
}
