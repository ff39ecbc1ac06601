package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

const collectionMenu = "menu_items"

type MenuRepository struct {
	col *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{col: db.Collection(collectionMenu)}
}

type mongoExtra struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Price string `bson:"price"`
}

type mongoMenuItem struct {
	ID           string       `bson:"_id"`
	Name         string       `bson:"name"`
	Description  string       `bson:"description,omitempty"`
	Category     string       `bson:"category"`
	Price        string       `bson:"price"`
	Extras       []mongoExtra `bson:"extras"`
	Available    bool         `bson:"available"`
	InventorySKU string       `bson:"inventory_sku,omitempty"`
	CreatedAt    time.Time    `bson:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at"`
}

func toMongoExtras(extras []domain.Extra) []mongoExtra {
	out := make([]mongoExtra, len(extras))
	for i, e := range extras {
		out[i] = mongoExtra{ID: e.ID, Name: e.Name, Price: moneyString(e.Price)}
	}
	return out
}

func fromMongoExtras(extras []mongoExtra) []domain.Extra {
	out := make([]domain.Extra, len(extras))
	for i, e := range extras {
		out[i] = domain.Extra{ID: e.ID, Name: e.Name, Price: parseMoney(e.Price)}
	}
	return out
}

func toMongoMenuItem(m *domain.MenuItem) mongoMenuItem {
	return mongoMenuItem{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Category:     m.Category,
		Price:        moneyString(m.Price),
		Extras:       toMongoExtras(m.Extras),
		Available:    m.Available,
		InventorySKU: m.InventorySKU,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func (d mongoMenuItem) toDomain() *domain.MenuItem {
	return &domain.MenuItem{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		Category:     d.Category,
		Price:        parseMoney(d.Price),
		Extras:       fromMongoExtras(d.Extras),
		Available:    d.Available,
		InventorySKU: d.InventorySKU,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// List returns menu items ordered by category then name.
func (r *MenuRepository) List(ctx context.Context, f ports.MenuFilter) ([]*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if !f.IncludeUnavailable {
		filter["available"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoMenuItem
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	items := make([]*domain.MenuItem, len(docs))
	for i, d := range docs {
		items[i] = d.toDomain()
	}
	return items, nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d mongoMenuItem
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoMenuItem(item)); err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (r *MenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": item.ID}, toMongoMenuItem(item))
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

// Categories returns the distinct categories of available items, sorted.
func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "category", bson.M{"available": true})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *MenuRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "available", Value: 1}}},
	})
	return err
}
