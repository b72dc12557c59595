package bank

import "context"

type StoreAPI interface {
	Upsert(ctx context.Context, acc Account) (Account, error)
	GetByEmployee(ctx context.Context, employeeID string) (Account, error)
	List(ctx context.Context) ([]Account, error)
}

var _ StoreAPI = (*Store)(nil)
