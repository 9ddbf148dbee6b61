package model

import "strings"

// AccountRole says which reconciliation side a GL account feeds.
type AccountRole string

const (
	AccountRoleReceivables AccountRole = "receivables"
	AccountRolePayables    AccountRole = "payables"
	AccountRoleLedger      AccountRole = "ledger"
)

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID          string // "1012.00"
	Name        string
	Role        AccountRole
	Description string
}

// Prefix returns the account number without its ".00" style suffix.
func (a Account) Prefix() string {
	return AccountPrefix(a.ID)
}

// AccountPrefix strips the ".00" style suffix of an account ID:
// "1012.00" -> "1012".
func AccountPrefix(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}
