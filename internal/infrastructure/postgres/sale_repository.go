package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository para PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository crea un repositorio de ventas (pool o transacción).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, user_id, subtotal, tax, discount, total, payment_method,
	COALESCE(customer_name, ''), COALESCE(customer_email, ''), COALESCE(notes, ''), created_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.UserID, &s.Subtotal, &s.Tax, &s.Discount, &s.Total, &s.PaymentMethod,
		&s.CustomerName, &s.CustomerEmail, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la cabecera y envía las líneas en un único batch.
// line_no conserva el orden en que llegaron las líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, user_id, subtotal, tax, discount, total, payment_method,
			customer_name, customer_email, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.UserID, s.Subtotal, s.Tax, s.Discount, s.Total, s.PaymentMethod,
		nullIfEmpty(s.CustomerName), nullIfEmpty(s.CustomerEmail), nullIfEmpty(s.Notes), s.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, s.UserID)
		}
		if isNumericOverflow(err) {
			return fmt.Errorf("%w: monto fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	if len(s.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, line_no, product_id, quantity, price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, s.ID, i+1, it.ProductID, it.Quantity, it.Price, it.Subtotal,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	for range s.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: producto de la línea", domain.ErrNotFound)
			}
			if isNumericOverflow(err) {
				return fmt.Errorf("%w: monto de la línea fuera de rango", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List cabeceras dentro de [From, To], de la más reciente a la más antigua.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	where, args := windowClause(f.From, f.To)
	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + saleColumns + ` FROM sales` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SaleRepo) ListItems(ctx context.Context, saleIDs []string) ([]entity.SaleItem, error) {
	if len(saleIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.name, si.quantity, si.price, si.subtotal
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1::uuid[])
		ORDER BY si.sale_id, si.line_no`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var out []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// windowClause arma el WHERE sobre created_at; los extremos nil no acotan.
func windowClause(from, to *time.Time) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
