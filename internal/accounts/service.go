package accounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/revipro-dev/revipro/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

func chartPath(root string) string {
	return filepath.Join(root, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a project root and returns a Service.
func Load(root string) (*Service, error) {
	f, err := os.Open(chartPath(root))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// LoadOrDefault is Load, falling back to DefaultChart when the project has
// no chart file.
func LoadOrDefault(root string) (*Service, error) {
	svc, err := Load(root)
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(DefaultChart()), nil
	}
	return svc, err
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByRole returns all accounts with the given role.
func (s *Service) ByRole(role model.AccountRole) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Role == role {
			result = append(result, a)
		}
	}
	return result
}

// LedgerTokens returns the account IDs a ledger extract is matched
// against, in chart order.
func (s *Service) LedgerTokens() []string {
	tokens := make([]string, 0, len(s.accounts))
	for _, a := range s.accounts {
		tokens = append(tokens, a.ID)
	}
	return tokens
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(chartPath(root))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
