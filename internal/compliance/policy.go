package compliance

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CompanyInfo describes the organization a privacy policy is generated for.
type CompanyInfo struct {
	Name           string   `json:"name"`
	DataCollected  []string `json:"data_collected"`
	DataUsage      []string `json:"data_usage"`
	DataSharing    []string `json:"data_sharing"`
	ContactEmail   string   `json:"contact_email"`
	ContactAddress string   `json:"contact_address"`
}

// PolicyResult is the public result of GeneratePrivacyPolicy.
type PolicyResult struct {
	Status        Status    `json:"status"`
	Message       string    `json:"message,omitempty"`
	PrivacyPolicy string    `json:"privacy_policy,omitempty"`
	CompanyName   string    `json:"company_name,omitempty"`
	GeneratedAt   time.Time `json:"generated_date,omitempty"`
}

// GeneratePrivacyPolicy produces a GDPR-oriented privacy policy document
// tailored to the given company.
func (a *Analyzer) GeneratePrivacyPolicy(ctx context.Context, info CompanyInfo) PolicyResult {
	name := info.Name
	if name == "" {
		name = "Company"
	}
	email := info.ContactEmail
	if email == "" {
		email = "contact@example.com"
	}
	address := info.ContactAddress
	if address == "" {
		address = "Not specified"
	}

	prompt := fmt.Sprintf(`Generate a comprehensive, GDPR-compliant privacy policy for %s.
Include all required sections for GDPR compliance.

Company Information:
- Name: %s
- Data Collected: %s
- Data Usage: %s
- Data Sharing: %s
- Contact Email: %s
- Contact Address: %s

The privacy policy should cover:
1. Types of personal data collected
2. Purpose of data processing
3. Legal basis for processing
4. Data retention periods
5. Data subject rights
6. Data security measures
7. International transfers
8. Use of cookies
9. Third-party sharing
10. Changes to privacy policy
11. Contact information for data protection inquiries

Format as a complete, professional privacy policy document.`,
		name, name,
		joinOr(info.DataCollected, "No data specified"),
		joinOr(info.DataUsage, "No usage specified"),
		joinOr(info.DataSharing, "No sharing specified"),
		email, address)

	text, err := a.complete(ctx, prompt, 4096, 0.2)
	if err != nil {
		a.logger.Error("privacy policy generation failed", "company", name, "error", err.Error())
		return PolicyResult{
			Status:  StatusError,
			Message: fmt.Sprintf("failed to generate privacy policy: %v", err),
		}
	}

	return PolicyResult{
		Status:        StatusSuccess,
		PrivacyPolicy: strings.TrimSpace(text),
		CompanyName:   name,
		GeneratedAt:   time.Now().UTC(),
	}
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
