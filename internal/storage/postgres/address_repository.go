package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type addressRepository struct {
	db *sql.DB
}

// NewAddressRepository создаёт PostgreSQL-реализацию AddressRepository.
func NewAddressRepository(store *Store) domain.AddressRepository {
	return &addressRepository{db: store.DB()}
}

const addressColumns = `
	id, owner_id, kind, recipient_name, email, phone, house, street,
	city, state, zip_code, country, is_default, created_at, updated_at`

// Create вставляет адрес; если он объявлен default, зачистка флага у
// остальных адресов владельца и вставка идут в одной транзакции.
func (r *addressRepository) Create(addr domain.Address) (domain.Address, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	addr.CreatedAt = now
	addr.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if addr.IsDefault {
		if _, err = tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = FALSE, updated_at = $2
			WHERE owner_id = $1 AND is_default
		`, addr.OwnerID, now); err != nil {
			return domain.Address{}, fmt.Errorf("clear default addresses: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO addresses (`+addressColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		addr.ID, addr.OwnerID, addr.Kind, addr.RecipientName, addr.Email, addr.Phone,
		addr.House, addr.Street, addr.City, addr.State, addr.ZipCode, addr.Country,
		addr.IsDefault, addr.CreatedAt, addr.UpdatedAt,
	); err != nil {
		return domain.Address{}, fmt.Errorf("insert address: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Address{}, fmt.Errorf("commit create address: %w", err)
	}

	return addr, nil
}

// Update применяет новые поля; зачистка default исключает сам адрес —
// он получает итоговое значение напрямую.
func (r *addressRepository) Update(addr domain.Address) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if addr.IsDefault {
		if _, err = tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = FALSE, updated_at = $3
			WHERE owner_id = $1 AND id <> $2 AND is_default
		`, addr.OwnerID, addr.ID, now); err != nil {
			return fmt.Errorf("clear default addresses: %w", err)
		}
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		UPDATE addresses
		SET kind = $3, recipient_name = $4, email = $5, phone = $6,
		    house = $7, street = $8, city = $9, state = $10,
		    zip_code = $11, country = $12, is_default = $13, updated_at = $14
		WHERE id = $1 AND owner_id = $2
	`,
		addr.ID, addr.OwnerID, addr.Kind, addr.RecipientName, addr.Email, addr.Phone,
		addr.House, addr.Street, addr.City, addr.State, addr.ZipCode, addr.Country,
		addr.IsDefault, now,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}

	var affected int64
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrAddressNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update address: %w", err)
	}

	return nil
}

func (r *addressRepository) Delete(ownerID, addressID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM addresses WHERE id = $1 AND owner_id = $2
	`, addressID, ownerID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrAddressNotFound
	}

	return nil
}

func (r *addressRepository) Get(ownerID, addressID string) (domain.Address, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var addr domain.Address
	err := r.db.QueryRowContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE id = $1 AND owner_id = $2
	`, addressID, ownerID).Scan(
		&addr.ID, &addr.OwnerID, &addr.Kind, &addr.RecipientName, &addr.Email, &addr.Phone,
		&addr.House, &addr.Street, &addr.City, &addr.State, &addr.ZipCode, &addr.Country,
		&addr.IsDefault, &addr.CreatedAt, &addr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Address{}, domain.ErrAddressNotFound
		}
		return domain.Address{}, fmt.Errorf("select address: %w", err)
	}

	return addr, nil
}

func (r *addressRepository) List(ownerID string) ([]domain.Address, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE owner_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := make([]domain.Address, 0)
	for rows.Next() {
		var addr domain.Address
		if err := rows.Scan(
			&addr.ID, &addr.OwnerID, &addr.Kind, &addr.RecipientName, &addr.Email, &addr.Phone,
			&addr.House, &addr.Street, &addr.City, &addr.State, &addr.ZipCode, &addr.Country,
			&addr.IsDefault, &addr.CreatedAt, &addr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}

	return addresses, nil
}

var _ domain.AddressRepository = (*addressRepository)(nil)
