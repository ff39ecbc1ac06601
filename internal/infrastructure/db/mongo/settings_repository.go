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

const (
	collectionSettings = "settings"
	settingsDocID      = "register"
)

// SettingsRepository stores the single register settings document.
type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

type mongoSettings struct {
	ID             string    `bson:"_id"`
	RestaurantName string    `bson:"restaurant_name"`
	Currency       string    `bson:"currency"`
	TaxRate        string    `bson:"tax_rate"`
	ReceiptFooter  string    `bson:"receipt_footer,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d mongoSettings
	if err := r.col.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &domain.Settings{
		RestaurantName: d.RestaurantName,
		Currency:       d.Currency,
		TaxRate:        parseMoney(d.TaxRate),
		ReceiptFooter:  d.ReceiptFooter,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSettings{
		ID:             settingsDocID,
		RestaurantName: s.RestaurantName,
		Currency:       s.Currency,
		TaxRate:        s.TaxRate.String(),
		ReceiptFooter:  s.ReceiptFooter,
		UpdatedAt:      s.UpdatedAt.UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
