// Package catalog maintains the in-memory product lookup, populated
// asynchronously from the product database. Consumers tolerate a partially
// populated lookup; OrderBuilder callers gate on Ready.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Catalog is a concurrency-safe productID→Product lookup
type Catalog struct {
	mu       sync.RWMutex
	products map[string]models.Product
	ready    bool
	logger   *zap.Logger
}

// New creates an empty, not-yet-ready catalog
func New() *Catalog {
	return &Catalog{
		products: make(map[string]models.Product),
		logger:   util.GetLogger(),
	}
}

// Get resolves a product by ID; ok=false while it is not loaded
func (c *Catalog) Get(productID string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[productID]
	return p, ok
}

// Ready reports whether the initial load has completed
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Replace swaps in a full product set and marks the catalog ready
func (c *Catalog) Replace(products []models.Product) {
	next := make(map[string]models.Product, len(products))
	for _, p := range products {
		next[p.ID] = p
	}

	c.mu.Lock()
	c.products = next
	c.ready = true
	c.mu.Unlock()

	util.CatalogProductsLoaded.Set(float64(len(next)))
}

// Loader reads products from Postgres
type Loader struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewLoader connects to the product database
func NewLoader(databaseURL string) (*Loader, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Loader{db: db, logger: util.GetLogger()}, nil
}

// Close closes the database connection
func (l *Loader) Close() error {
	return l.db.Close()
}

// Load fetches all products
func (l *Loader) Load(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := l.db.SelectContext(ctx, &products,
		"SELECT id, name, price, image_url, category FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// LoadInto populates the catalog from the database, logging on failure.
// Meant to run in a goroutine at startup; the catalog stays not-ready (and
// pricing tolerates the empty lookup) until the first load succeeds.
func (l *Loader) LoadInto(ctx context.Context, c *Catalog) {
	products, err := l.Load(ctx)
	if err != nil {
		l.logger.Error("Catalog load failed", zap.Error(err))
		return
	}
	c.Replace(products)
	l.logger.Info("Catalog loaded", zap.Int("products", len(products)))
}
