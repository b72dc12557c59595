package bank

import (
	"context"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Save normalises and validates the IBAN before touching the store.
func (s *Service) Save(ctx context.Context, acc Account) (Account, error) {
	acc.IBAN = NormalizeIBAN(acc.IBAN)
	acc.BankName = strings.TrimSpace(acc.BankName)
	acc.AccountNumber = strings.TrimSpace(acc.AccountNumber)
	acc.SwiftCode = strings.ToUpper(strings.TrimSpace(acc.SwiftCode))
	if !ValidateIBAN(acc.IBAN) {
		return Account{}, ErrInvalidIBAN
	}
	if acc.BankName == "" {
		return Account{}, ErrBankNameMissing
	}
	return s.Store.Upsert(ctx, acc)
}

func (s *Service) Get(ctx context.Context, employeeID string) (Account, error) {
	return s.Store.GetByEmployee(ctx, employeeID)
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.Store.List(ctx)
}

// DefaultSnapshots maps employee id to the snapshot of their account,
// preferring the row flagged default.
func (s *Service) DefaultSnapshots(ctx context.Context) (map[string]Snapshot, error) {
	accounts, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Snapshot, len(accounts))
	chosenDefault := map[string]bool{}
	for _, acc := range accounts {
		if chosenDefault[acc.EmployeeID] {
			continue
		}
		out[acc.EmployeeID] = acc.Snapshot()
		chosenDefault[acc.EmployeeID] = acc.IsDefault
	}
	return out, nil
}
