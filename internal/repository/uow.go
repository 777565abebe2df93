package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SqlxUnitOfWork binds all repositories to one sqlx transaction so a
// status write and its correlated ledger insert commit or roll back
// together.
type SqlxUnitOfWork struct {
	db *sqlx.DB
}

func NewSqlxUnitOfWork(db *sqlx.DB) *SqlxUnitOfWork {
	return &SqlxUnitOfWork{db: db}
}

func (u *SqlxUnitOfWork) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	repos := Repos{
		Loans:      NewLoanRepository(tx),
		Guarantors: NewGuarantorRepository(tx),
		Votes:      NewVoteRepository(tx),
		Fines:      NewFineRepository(tx),
		Ledger:     NewLedgerRepository(tx),
		Settings:   NewSettingRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}

	return tx.Commit()
}

// NewRepos builds repositories bound straight to the pool for
// read-only paths that need no transaction.
func NewRepos(db *sqlx.DB) Repos {
	return Repos{
		Loans:      NewLoanRepository(db),
		Guarantors: NewGuarantorRepository(db),
		Votes:      NewVoteRepository(db),
		Fines:      NewFineRepository(db),
		Ledger:     NewLedgerRepository(db),
		Settings:   NewSettingRepository(db),
	}
}

// IsUniqueViolation reports whether err is a postgres duplicate-key
// error, the concurrency guard for guarantor and vote rows.
func IsUniqueViolation(err error) bool {
	return isPqError(err, "23505")
}
