package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// RuleID identifies a reconciliation rule.
type RuleID string

const (
	RuleR805 RuleID = "R805"
	RuleR806 RuleID = "R806"
)

// AuditStatus is the verdict of one rule.
type AuditStatus string

const (
	StatusMatch      AuditStatus = "MATCH"
	StatusMismatch   AuditStatus = "MISMATCH"
	StatusIncomplete AuditStatus = "INCOMPLETE"
	StatusNoData     AuditStatus = "NO_DATA"
)

// AuditRule pairs one sign bucket of tax facts with one ledger account.
type AuditRule struct {
	ID            RuleID
	Description   string
	Negative      bool // true: negative residuals bucket
	LedgerAccount string
}

// AuditResult is the outcome of one rule for a batch.
type AuditResult struct {
	Rule        AuditRule
	Status      AuditStatus
	TaxTotal    *decimal.Decimal
	LedgerTotal *decimal.Decimal
	Difference  decimal.Decimal
	Hint        string
	TaxItems    []TaxFact
	LedgerItems []LedgerFact
}

// DocumentStatus says what happened to one input document.
type DocumentStatus string

const (
	DocumentExtracted DocumentStatus = "extracted"
	DocumentIgnored   DocumentStatus = "ignored"
	DocumentDropped   DocumentStatus = "dropped"
)

// DocumentSummary reports the classification and outcome of one document.
type DocumentSummary struct {
	Filename string
	Category Category
	Status   DocumentStatus
	Facts    int
	Reason   string
}

// Analysis is the complete output of one batch.
type Analysis struct {
	RunID     string
	Results   []AuditResult
	Documents []DocumentSummary
	Findings  []Finding
}

// Count returns the number of documents whose category satisfies pred.
func (a Analysis) Count(pred func(Category) bool) int {
	n := 0
	for _, d := range a.Documents {
		if d.Status == DocumentExtracted && pred(d.Category) {
			n++
		}
	}
	return n
}

// Finding is a plausibility warning raised while reconciling. Findings
// never change a rule's status.
type Finding struct {
	Check       int
	Source      string
	Description string
}

func (f Finding) String() string {
	return "check " + strconv.Itoa(f.Check) + " [" + f.Source + "]: " + f.Description
}
