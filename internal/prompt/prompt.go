package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"credintel/internal/domain"
)

// DataPlaceholder marks where the serialized bureau data is injected
// into the prompt template. Override templates must contain it.
const DataPlaceholder = "{{RAW_CREDIT_REPORT_DATA_HERE}}"

// DefaultTemplate is the expert analyst prompt used when the caller
// does not supply an override.
const DefaultTemplate = `You are a senior credit-risk analyst.
Convert the **raw CREDIT report** below into a clean, intelligence-based credit report for lenders and underwriters.

────────────────────────  REQUIRED STEPS  ────────────────────────
1. **Extract** all key data points, with MANDATORY PAN extraction:

   **PAN NUMBER EXTRACTION (CRITICAL - NEVER SKIP):**
   - PAN is EXACTLY 10 characters: 5 UPPERCASE letters + 4 digits + 1 UPPERCASE letter
   - Examples: ABCDE1234F, PANPM1234C, BQRPS9876K
   - Search EVERYWHERE in the data for this pattern: fields named "ID", "pan", "PAN",
     "identification", "tax id", "permanent_account_number", any field containing "PAN"
     (case-insensitive), and any 10-character alphanumeric value matching the pattern.
   - Clean formatting: remove spaces, hyphens, dots (ABCD-E123-4F becomes ABCDE1234F).
   - If multiple PANs are found, use the first valid one.
   - DOUBLE-CHECK: ensure it matches [A-Z]{5}[0-9]{4}[A-Z]{1} before including.
2. **Clean & normalise** dates (YYYY-MM-DD), numbers (no commas), and remove duplicates/inconsistencies.
3. **Analyse** risk and give a lending recommendation.
4. **Output exactly one valid JSON object** that conforms to the schema shown.
5. **Do NOT hallucinate**. If any field is missing or unreadable, set its value to null.
6. Return **only** the JSON with no extra text, no markdown, no code fences.

────────────────────────────  SCHEMA  ────────────────────────────
{
  "report_generated_date": "YYYY-MM-DD" | null,

  "customer": {
    "pan":            string | null,
    "name":           string | null,
    "date_of_birth":  "YYYY-MM-DD" | null,
    "gender":         "Male" | "Female" | null,
    "age":            int | null,
    "phone_number":   string | null,
    "email_address":  string | null
  },

  "credit_score": {
    "credit_score":         int | null,
    "score_status":         string | null,
    "score_interpretation": string | null
  },

  "risk_analysis": {
    "risk_category":    "Low" | "Moderate" | "High" | null,
    "suggested_action": string | null
  },

  "account_summary": {
    "total_accounts":       int | null,
    "active_accounts":      int | null,
    "closed_accounts":      int | null,
    "overdue_accounts":     int | null,
    "written_off_accounts": int | null
  },

  "account_details": [
    {
      "type":            string | null,
      "ownership":       string | null,
      "current_balance": float | null,
      "dpd":             string | null,
      "payment_history": string | null
    }
  ] | null,

  "credit_enquiries": {
    "total_enquiries_last_6_months": int | null,
    "high_frequency_flag":           bool | null,
    "enquiry_details":               [object] | null
  },

  "flags_and_observations": {
    "critical_flags":       [string] | null,
    "general_observations": string | null
  },

  "remarks": string | null
}

────────────────────  BEGIN RAW CREDIT DATA  ────────────────────
{{RAW_CREDIT_REPORT_DATA_HERE}}
───────────────────────────  END  ──────────────────────────────`

// Build renders a prompt from the document's structured data. An
// empty override selects the default template; a non-empty override
// must carry the data placeholder.
func Build(doc *domain.NormalizedDocument, override string) (*domain.PromptSpec, error) {
	template := DefaultTemplate
	if strings.TrimSpace(override) != "" {
		template = override
		if !strings.Contains(template, DataPlaceholder) {
			return nil, domain.ErrPromptTemplate
		}
	}

	serialized, err := json.Marshal(doc.StructuredData)
	if err != nil {
		return nil, fmt.Errorf("serializing structured data: %w", err)
	}

	return &domain.PromptSpec{
		Template: template,
		Text:     strings.ReplaceAll(template, DataPlaceholder, string(serialized)),
	}, nil
}
