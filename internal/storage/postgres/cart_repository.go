package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{db: store.DB()}
}

// Upsert опирается на уникальный индекс (owner_id, product_name):
// гонка двух add-запросов одного владельца разрешается в инкремент,
// а не в дубликат строки. Инкремент всегда на единицу.
func (r *cartRepository) Upsert(line domain.CartLine) (domain.CartLine, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	var stored domain.CartLine
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_lines (
			id, owner_id, product_name, unit_price, quantity, owner_name, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
		ON CONFLICT (owner_id, product_name) DO UPDATE
		SET quantity   = cart_lines.quantity + 1,
		    owner_name = EXCLUDED.owner_name,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, owner_id, product_name, unit_price, quantity, owner_name, created_at, updated_at
	`,
		line.ID, line.OwnerID, line.ProductName, line.UnitPrice, line.Quantity, line.OwnerName, now,
	).Scan(
		&stored.ID, &stored.OwnerID, &stored.ProductName, &stored.UnitPrice,
		&stored.Quantity, &stored.OwnerName, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.CartLine{}, false, domain.ErrDuplicateCartLine
		}
		return domain.CartLine{}, false, fmt.Errorf("upsert cart line: %w", err)
	}

	inserted := stored.ID == line.ID
	return stored, inserted, nil
}

func (r *cartRepository) List(ownerID string) ([]domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, product_name, unit_price, quantity, owner_name, created_at, updated_at
		FROM cart_lines
		WHERE owner_id = $1
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID, &line.OwnerID, &line.ProductName, &line.UnitPrice,
			&line.Quantity, &line.OwnerName, &line.CreatedAt, &line.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	return lines, nil
}

func (r *cartRepository) Remove(ownerID, lineID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_lines
		WHERE id = $1 AND owner_id = $2
	`, lineID, ownerID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCartLineNotFound
	}

	return nil
}

func (r *cartRepository) Clear(ownerID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(affected), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.CartRepository = (*cartRepository)(nil)
