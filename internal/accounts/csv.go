package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/revipro-dev/revipro/internal/model"
)

const (
	numFields = 4
	colID     = 0
	colName   = 1
	colRole   = 2
	colDesc   = 3
)

// Header is the first row of chart-of-accounts.csv.
const Header = "account_id,account_name,role,description"

// ReadAccounts reads chart-of-accounts.csv. Account IDs must be unique.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if got := strings.Join(header, ","); got != Header {
		return nil, fmt.Errorf("reading accounts CSV: unexpected header %q", got)
	}

	var accounts []model.Account
	seen := make(map[string]int)
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading accounts CSV: %w", err)
		}
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if first, ok := seen[acct.ID]; ok {
			return nil, fmt.Errorf("row %d: account %s already defined in row %d", row, acct.ID, first)
		}
		seen[acct.ID] = row
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colName] = acct.Name
	row[colRole] = string(acct.Role)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return model.Account{}, fmt.Errorf("empty account_id")
	}

	role := model.AccountRole(record[colRole])
	switch role {
	case model.AccountRoleReceivables, model.AccountRolePayables, model.AccountRoleLedger:
	default:
		return model.Account{}, fmt.Errorf("unknown role %q for account %s", record[colRole], record[colID])
	}

	return model.Account{
		ID:          record[colID],
		Name:        record[colName],
		Role:        role,
		Description: record[colDesc],
	}, nil
}
