package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jpradov/galeria-api/internal/application/invitation"
	"github.com/jpradov/galeria-api/internal/domain/repository"
)

var _ invitation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es el límite
// de unidad de trabajo de la aceptación de invitaciones: la transición de
// estado y la escritura cruzada en la tabla de asociaciones comparten commit.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InvitationRepository,
	assocRepo repository.AssociationRepository,
	profileRepo repository.ProfileRepository,
	storeRepo repository.StoreRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invRepo := NewInvitationRepository(tx)
	assocRepo := NewAssociationRepository(tx)
	profileRepo := NewProfileRepository(tx)
	storeRepo := NewStoreRepository(tx)

	if err := fn(invRepo, assocRepo, profileRepo, storeRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
