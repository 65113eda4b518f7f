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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository para PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository crea un repositorio de productos (pool o transacción).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, category_id, name, COALESCE(description, ''), price, cost, stock, barcode,
	COALESCE(unit_measure, ''), COALESCE(image_base64, ''), COALESCE(image_url, ''), is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock, &p.Barcode,
		&p.UnitMeasure, &p.ImageBase64, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, category_id, name, description, price, cost, stock, barcode,
			unit_measure, image_base64, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.CategoryID, p.Name, nullIfEmpty(p.Description), p.Price, p.Cost, p.Stock, p.Barcode,
		nullIfEmpty(p.UnitMeasure), nullIfEmpty(p.ImageBase64), nullIfEmpty(p.ImageURL), p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	return r.writeErr("insert product", err)
}

// Update construye el SET solo con los campos del patch; las columnas ausentes
// (stock incluido) conservan el valor que tenga la fila al momento del UPDATE.
func (r *ProductRepo) Update(ctx context.Context, id string, patch repository.ProductPatch) (*entity.Product, error) {
	var (
		sets []string
		args = []any{id}
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", nullIfEmpty(*patch.Description))
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Cost != nil {
		set("cost", *patch.Cost)
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.SetBarcode {
		set("barcode", patch.Barcode)
	}
	if patch.UnitMeasure != nil {
		set("unit_measure", nullIfEmpty(*patch.UnitMeasure))
	}
	if patch.ImageBase64 != nil {
		set("image_base64", nullIfEmpty(*patch.ImageBase64))
	}
	if patch.ImageURL != nil {
		set("image_url", nullIfEmpty(*patch.ImageURL))
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}
	set("updated_at", patch.UpdatedAt)

	query := `UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		return nil, r.writeErr("update product", err)
	}
	return p, nil
}

// writeErr traduce violaciones de constraints a errores de dominio.
func (r *ProductRepo) writeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: código de barras ya registrado", domain.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: categoría", domain.ErrNotFound)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, constraintName(err))
	case isNumericOverflow(err):
		return fmt.Errorf("%w: monto fuera de rango", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// List aplica los filtros en AND, ordena por nombre y pagina con OFFSET/LIMIT.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		conds []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryMany(ctx, "list products", query, args...)
}

func (r *ProductRepo) Deactivate(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("deactivate product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LockForUpdate toma los locks de fila en orden de id para que dos ventas
// concurrentes sobre los mismos productos no se bloqueen mutuamente.
func (r *ProductRepo) LockForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryMany(ctx, "lock products",
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`, ids)
}

// DecrementStock UPDATE condicionado: nunca deja stock negativo aunque el lock previo falte.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ProductRepo) queryMany(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
