package bank

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	cryptoutil "hrdash/internal/platform/crypto"
	"hrdash/internal/platform/querier"
)

// Store persists one account per employee. When the sealer is configured
// the account number and IBAN live only in the *_enc columns and the plain
// columns carry a masked account number.
type Store struct {
	DB     querier.Querier
	Sealer *cryptoutil.Sealer
}

func NewStore(db querier.Querier, sealer *cryptoutil.Sealer) *Store {
	return &Store{DB: db, Sealer: sealer}
}

func (s *Store) Upsert(ctx context.Context, acc Account) (Account, error) {
	plainNumber, plainIBAN := acc.AccountNumber, acc.IBAN
	var numberEnc, ibanEnc []byte
	if s.Sealer.Configured() {
		var err error
		if numberEnc, err = s.Sealer.SealString(acc.AccountNumber); err != nil {
			return Account{}, err
		}
		if ibanEnc, err = s.Sealer.SealString(acc.IBAN); err != nil {
			return Account{}, err
		}
		plainNumber, plainIBAN = MaskAccount(acc.AccountNumber), ""
	}

	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_bank_accounts (employee_id, bank_name, account_holder, account_number, account_number_enc,
      iban, iban_enc, swift_code, branch_code, is_default)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (employee_id) DO UPDATE SET
      bank_name = EXCLUDED.bank_name,
      account_holder = EXCLUDED.account_holder,
      account_number = EXCLUDED.account_number,
      account_number_enc = EXCLUDED.account_number_enc,
      iban = EXCLUDED.iban,
      iban_enc = EXCLUDED.iban_enc,
      swift_code = EXCLUDED.swift_code,
      branch_code = EXCLUDED.branch_code,
      is_default = EXCLUDED.is_default,
      updated_at = now()
    RETURNING id, created_at, updated_at
  `, acc.EmployeeID, acc.BankName, acc.AccountHolder, plainNumber, numberEnc,
		plainIBAN, ibanEnc, acc.SwiftCode, acc.BranchCode, acc.IsDefault,
	).Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return Account{}, err
	}
	return acc, nil
}

const accountColumns = `
    SELECT id, employee_id, bank_name, account_holder, account_number, account_number_enc,
           iban, iban_enc, swift_code, branch_code, is_default, created_at, updated_at
    FROM employee_bank_accounts`

func (s *Store) scan(row pgx.Row) (Account, error) {
	var acc Account
	var numberEnc, ibanEnc []byte
	if err := row.Scan(&acc.ID, &acc.EmployeeID, &acc.BankName, &acc.AccountHolder, &acc.AccountNumber, &numberEnc,
		&acc.IBAN, &ibanEnc, &acc.SwiftCode, &acc.BranchCode, &acc.IsDefault, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return Account{}, err
	}
	acc.AccountNumber = s.open(numberEnc, acc.AccountNumber)
	acc.IBAN = s.open(ibanEnc, acc.IBAN)
	return acc, nil
}

func (s *Store) open(sealed []byte, fallback string) string {
	if len(sealed) == 0 || !s.Sealer.Configured() {
		return fallback
	}
	plain, err := s.Sealer.OpenString(sealed)
	if err != nil {
		slog.Warn("bank field decrypt failed", "err", err)
		return fallback
	}
	return plain
}

func (s *Store) GetByEmployee(ctx context.Context, employeeID string) (Account, error) {
	acc, err := s.scan(s.DB.QueryRow(ctx, accountColumns+`
    WHERE employee_id = $1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return acc, err
}

func (s *Store) List(ctx context.Context) ([]Account, error) {
	rows, err := s.DB.Query(ctx, accountColumns+`
    ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		acc, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}
