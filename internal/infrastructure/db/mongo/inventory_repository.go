package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bistro/pos-system/internal/core/domain"
)

const collectionInventory = "inventory"

type InventoryRepository struct {
	col *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{col: db.Collection(collectionInventory)}
}

type mongoInventoryItem struct {
	SKU               string    `bson:"_id"`
	Name              string    `bson:"name"`
	Unit              string    `bson:"unit,omitempty"`
	Quantity          int       `bson:"quantity"`
	LowStockThreshold int       `bson:"low_stock_threshold"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func toMongoInventoryItem(i *domain.InventoryItem) mongoInventoryItem {
	return mongoInventoryItem{
		SKU:               i.SKU,
		Name:              i.Name,
		Unit:              i.Unit,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		UpdatedAt:         i.UpdatedAt.UTC(),
	}
}

func (d mongoInventoryItem) toDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		SKU:               d.SKU,
		Name:              d.Name,
		Unit:              d.Unit,
		Quantity:          d.Quantity,
		LowStockThreshold: d.LowStockThreshold,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoInventoryItem(item)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInventoryItemExists
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

func (r *InventoryRepository) FindBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d mongoInventoryItem
	if err := r.col.FindOne(ctx, bson.M{"_id": sku}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("find inventory item: %w", err)
	}
	return d.toDomain(), nil
}

func (r *InventoryRepository) List(ctx context.Context) ([]*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoInventoryItem
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	out := make([]*domain.InventoryItem, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": item.SKU}, toMongoInventoryItem(item))
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return nil
}

func (r *InventoryRepository) Delete(ctx context.Context, sku string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": sku})
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return nil
}

// Adjust atomically adds delta to the stock level. A negative delta only
// matches when enough stock is on hand.
func (r *InventoryRepository) Adjust(ctx context.Context, sku string, delta int) (*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": sku}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d mongoInventoryItem
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if err == nil {
		return d.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("adjust inventory: %w", err)
	}
	if _, findErr := r.FindBySKU(ctx, sku); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrInsufficientStock
}

// Consume subtracts qty from the stock level, clamping at zero.
func (r *InventoryRepository) Consume(ctx context.Context, sku string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$subtract", Value: bson.A{"$quantity", qty}}},
			}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": sku}, pipeline)
	if err != nil {
		return fmt.Errorf("consume inventory: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return nil
}

func (r *InventoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "quantity", Value: 1}}},
	})
	return err
}
