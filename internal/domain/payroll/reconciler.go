package payroll

import "context"

// Reconciler turns recent payroll lines into bank transfer rows.
type Reconciler struct {
	Store StoreAPI
	Limit int
}

func NewReconciler(store StoreAPI, limit int) *Reconciler {
	if limit <= 0 {
		limit = DefaultTransferLimit
	}
	return &Reconciler{Store: store, Limit: limit}
}

// ListTransfers keeps only rows whose employee is in activeIDs, so the result
// can hold fewer than Limit entries. A nil activeIDs disables the filter.
func (r *Reconciler) ListTransfers(ctx context.Context, activeIDs map[string]bool) ([]Transfer, error) {
	rows, err := r.Store.RecentTransfers(ctx, r.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]Transfer, 0, len(rows))
	for _, row := range rows {
		if activeIDs != nil && !activeIDs[row.EmployeeID] {
			continue
		}
		out = append(out, toTransfer(row))
	}
	return out, nil
}

func toTransfer(row TransferRow) Transfer {
	t := Transfer{
		ID:            row.RecordID,
		BatchID:       row.BatchID,
		EmployeeID:    row.EmployeeID,
		EmployeeName:  row.EmployeeName,
		Amount:        row.NetSalary,
		AccountNumber: PlaceholderAccount,
		BankName:      PlaceholderBank,
		Status:        MapTransferStatus(row.PaymentStatus),
		CreatedAt:     row.CreatedAt,
	}
	if row.BankAccount != nil {
		if row.BankAccount.AccountNumber != "" {
			t.AccountNumber = row.BankAccount.AccountNumber
		}
		if row.BankAccount.BankName != "" {
			t.BankName = row.BankAccount.BankName
		}
	}
	return t
}
