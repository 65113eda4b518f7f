//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/application/sales"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
	"github.com/jhoicas/paws-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/paws-pos/pkg/clock"
	"github.com/jhoicas/paws-pos/pkg/config"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "paws_pos_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres container: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		defer func() { _ = container.Terminate(ctx) }()

		host, err := container.Host(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "container host: %v\n", err)
			return 1
		}
		port, err := container.MappedPort(ctx, "5432")
		if err != nil {
			fmt.Fprintf(os.Stderr, "container port: %v\n", err)
			return 1
		}

		dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/paws_pos_test?sslmode=disable", host, port.Port())
		testPool, err = postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
		if err != nil {
			fmt.Fprintf(os.Stderr, "pool: %v\n", err)
			return 1
		}
		defer testPool.Close()

		if err := postgres.Migrate(ctx, testPool, postgres.MigrateUp, zerolog.Nop()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			return 1
		}
		return m.Run()
	}()
	os.Exit(code)
}

func resetDB(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE sale_items, sales, products, categories, users CASCADE`)
	require.NoError(t, err)
}

var bogota = func() *time.Location {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		panic(err)
	}
	return loc
}()

type fixture struct {
	cashier  *entity.User
	category *entity.Category
	now      time.Time
}

func seed(t *testing.T) fixture {
	t.Helper()
	resetDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, bogota)

	u := &entity.User{
		ID: uuid.NewString(), Email: "cajero@tienda.co", Username: "cajero", PasswordHash: "x",
		FullName: "Caja 1", Role: entity.RoleCashier, IsActive: true, CreatedAt: now,
	}
	require.NoError(t, postgres.NewUserRepository(testPool).Create(ctx, u))

	c := &entity.Category{ID: uuid.NewString(), Name: "Alimentos", CreatedAt: now}
	require.NoError(t, postgres.NewCategoryRepository(testPool).Create(ctx, c))
	return fixture{cashier: u, category: c, now: now}
}

func newProduct(t *testing.T, f fixture, name string, price string, stock int, barcode *string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID: uuid.NewString(), CategoryID: f.category.ID, Name: name,
		Price: decimal.RequireFromString(price), Cost: decimal.Zero, Stock: stock, Barcode: barcode,
		IsActive: true, CreatedAt: f.now, UpdatedAt: f.now,
	}
	require.NoError(t, postgres.NewProductRepository(testPool).Create(context.Background(), p))
	return p
}

func ptr[T any](v T) *T { return &v }

func TestUserRepo_Unicidad(t *testing.T) {
	f := seed(t)
	repo := postgres.NewUserRepository(testPool)
	ctx := context.Background()

	dup := *f.cashier
	dup.ID = uuid.NewString()
	dup.Email = "otro@tienda.co"
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByUsername(ctx, "cajero")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.cashier.ID, got.ID)

	missing, err := repo.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_ListFiltros(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(testPool)

	newProduct(t, f, "Dog Chow Adulto", "35000", 10, ptr("7702084000011"))
	newProduct(t, f, "Gato 100% Pollo", "12000", 3, nil)
	off := newProduct(t, f, "Dog Snack", "5000", 1, nil)
	ok, err := repo.Deactivate(ctx, off.ID, f.now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := repo.GetByID(ctx, off.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.True(t, got.UpdatedAt.Equal(f.now.Add(time.Hour)))

	active := true
	list, err := repo.List(ctx, repository.ProductFilter{Limit: 100, Search: "dog", IsActive: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dog Chow Adulto", list[0].Name)

	list, err = repo.List(ctx, repository.ProductFilter{Limit: 100, Search: "100%"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gato 100% Pollo", list[0].Name)

	list, err = repo.List(ctx, repository.ProductFilter{Limit: 100, Search: "dog"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	dup := &entity.Product{
		ID: uuid.NewString(), CategoryID: f.category.ID, Name: "Copia", Price: decimal.NewFromInt(1),
		Barcode: ptr("7702084000011"), IsActive: true, CreatedAt: f.now, UpdatedAt: f.now,
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	orphan := &entity.Product{
		ID: uuid.NewString(), CategoryID: uuid.NewString(), Name: "Huérfano", Price: decimal.NewFromInt(1),
		IsActive: true, CreatedAt: f.now, UpdatedAt: f.now,
	}
	assert.ErrorIs(t, repo.Create(ctx, orphan), domain.ErrNotFound)
}

func TestProductRepo_UpdateParcialConservaStock(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(testPool)
	p := newProduct(t, f, "Arena Gato", "20000", 5, ptr("7700000000001"))

	// Una venta descuenta stock entre la lectura del cliente y su actualización de precio.
	ok, err := repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	later := f.now.Add(time.Hour)
	updated, err := repo.Update(ctx, p.ID, repository.ProductPatch{Price: ptr(decimal.RequireFromString("21000")), UpdatedAt: later})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("21000")))
	require.NotNil(t, updated.Barcode)
	assert.Equal(t, "7700000000001", *updated.Barcode)
	assert.True(t, updated.UpdatedAt.Equal(later))

	updated, err = repo.Update(ctx, p.ID, repository.ProductPatch{SetBarcode: true, UpdatedAt: later})
	require.NoError(t, err)
	assert.Nil(t, updated.Barcode)

	_, err = repo.Update(ctx, uuid.NewString(), repository.ProductPatch{Stock: ptr(1), UpdatedAt: later})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Update(ctx, p.ID, repository.ProductPatch{Price: ptr(decimal.RequireFromString("10000000000000")), UpdatedAt: later})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductRepo_DecrementoCondicionado(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(testPool)
	p := newProduct(t, f, "Arena", "20000", 2, nil)

	ok, err := repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func newSaleUseCase(now time.Time) *sales.SaleUseCase {
	log := zerolog.Nop()
	return sales.NewSaleUseCase(
		postgres.NewTxRunner(testPool, postgres.DefaultRetryPolicy(), log),
		postgres.NewSaleRepository(testPool),
		postgres.NewUserRepository(testPool),
		postgres.NewAnalyticsRepository(testPool),
		sales.Config{},
		clock.NewFixed(now),
		log,
	)
}

func TestSale_CommitYConsulta(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	uc := newSaleUseCase(f.now)
	a := newProduct(t, f, "Dog Chow", "45000", 25, nil)
	b := newProduct(t, f, "Hueso", "5000", 10, nil)

	res, err := uc.Create(ctx, f.cashier, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: b.ID, Quantity: 1, Price: decimal.NewFromInt(5000)},
			{ProductID: a.ID, Quantity: 2, Price: decimal.NewFromInt(45000)},
		},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("113050").Equal(res.Total), res.Total.String())

	got, err := uc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Hueso", got.Items[0].ProductName)
	assert.Equal(t, "Dog Chow", got.Items[1].ProductName)
	require.NotNil(t, got.User)
	assert.Equal(t, "cajero", got.User.Username)

	stock, err := postgres.NewProductRepository(testPool).GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 23, stock.Stock)

	sum, err := uc.Summary(ctx, dto.ListSalesQuery{Today: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.True(t, res.Total.Equal(sum.Total))
}

func TestSale_StockInsuficienteRevierte(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	uc := newSaleUseCase(f.now)
	a := newProduct(t, f, "Dog Chow", "45000", 5, nil)
	b := newProduct(t, f, "Hueso", "5000", 1, nil)

	_, err := uc.Create(ctx, f.cashier, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: a.ID, Quantity: 2, Price: decimal.NewFromInt(45000)},
			{ProductID: b.ID, Quantity: 2, Price: decimal.NewFromInt(5000)},
		},
		PaymentMethod: entity.PaymentCard,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := postgres.NewProductRepository(testPool).GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	var n int
	require.NoError(t, testPool.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n))
	assert.Zero(t, n)
}

func TestSale_ConcurrenciaNoSobrevende(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	uc := newSaleUseCase(f.now)
	p := newProduct(t, f, "Dog Chow", "45000", 5, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		okCount int
		errs    []error
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(ctx, f.cashier, dto.CreateSaleRequest{
				Items:         []dto.SaleItemRequest{{ProductID: p.ID, Quantity: 3, Price: decimal.NewFromInt(45000)}},
				PaymentMethod: entity.PaymentCash,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			okCount++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCount)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrInsufficientStock)

	got, err := postgres.NewProductRepository(testPool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestAnalyticsRepo_Conteos(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	repo := postgres.NewAnalyticsRepository(testPool)
	newProduct(t, f, "A", "1000", 3, nil)
	newProduct(t, f, "B", "1000", 30, nil)

	n, err := repo.CountActiveProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	low, err := repo.CountLowStockProducts(ctx, entity.LowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1, low)

	m, err := repo.GetSalesMetrics(ctx, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, m.Count)
	assert.True(t, m.Revenue.IsZero())
}
