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
	"github.com/bistro/pos-system/internal/core/ports"
)

const collectionSales = "sales"

// SaleRepository implements ports.SaleRepository using MongoDB.
type SaleRepository struct {
	col *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{col: db.Collection(collectionSales)}
}

type mongoSaleLine struct {
	ID           string       `bson:"id"`
	MenuItemID   string       `bson:"menu_item_id"`
	Name         string       `bson:"name"`
	UnitPrice    string       `bson:"unit_price"`
	Quantity     int          `bson:"quantity"`
	Extras       []mongoExtra `bson:"extras,omitempty"`
	Notes        string       `bson:"notes,omitempty"`
	InventorySKU string       `bson:"inventory_sku,omitempty"`
}

type mongoSale struct {
	ID            string          `bson:"_id"`
	OrderNumber   string          `bson:"order_number"`
	EmployeeID    string          `bson:"employee_id"`
	EmployeeName  string          `bson:"employee_name"`
	Lines         []mongoSaleLine `bson:"lines"`
	ItemCount     int             `bson:"item_count"`
	Subtotal      string          `bson:"subtotal"`
	TaxRate       string          `bson:"tax_rate"`
	Tax           string          `bson:"tax"`
	Tip           string          `bson:"tip"`
	Total         string          `bson:"total"`
	Currency      string          `bson:"currency"`
	PaymentMethod string          `bson:"payment_method"`
	OrderType     string          `bson:"order_type"`
	TableNumber   int             `bson:"table_number,omitempty"`
	CustomerName  string          `bson:"customer_name,omitempty"`
	Status        string          `bson:"status"`
	Notification  string          `bson:"notification_status"`
	CreatedAt     time.Time       `bson:"created_at"`
	VoidedAt      *time.Time      `bson:"voided_at,omitempty"`
}

func toMongoSale(s *domain.Sale) mongoSale {
	lines := make([]mongoSaleLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = mongoSaleLine{
			ID:           l.ID,
			MenuItemID:   l.MenuItemID,
			Name:         l.Name,
			UnitPrice:    moneyString(l.UnitPrice),
			Quantity:     l.Quantity,
			Extras:       toMongoExtras(l.Extras),
			Notes:        l.Notes,
			InventorySKU: l.InventorySKU,
		}
	}
	doc := mongoSale{
		ID:            s.ID,
		OrderNumber:   s.OrderNumber,
		EmployeeID:    s.EmployeeID,
		EmployeeName:  s.EmployeeName,
		Lines:         lines,
		ItemCount:     s.ItemCount,
		Subtotal:      moneyString(s.Subtotal),
		TaxRate:       s.TaxRate.String(),
		Tax:           moneyString(s.Tax),
		Tip:           moneyString(s.Tip),
		Total:         moneyString(s.Total),
		Currency:      s.Currency,
		PaymentMethod: string(s.PaymentMethod),
		OrderType:     string(s.OrderType),
		TableNumber:   s.TableNumber,
		CustomerName:  s.CustomerName,
		Status:        string(s.Status),
		Notification:  string(s.Notification),
		CreatedAt:     s.CreatedAt.UTC(),
	}
	if !s.VoidedAt.IsZero() {
		at := s.VoidedAt.UTC()
		doc.VoidedAt = &at
	}
	return doc
}

func (d mongoSale) toDomain() *domain.Sale {
	lines := make([]domain.CartLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = domain.CartLine{
			ID:           l.ID,
			MenuItemID:   l.MenuItemID,
			Name:         l.Name,
			UnitPrice:    parseMoney(l.UnitPrice),
			Quantity:     l.Quantity,
			Extras:       fromMongoExtras(l.Extras),
			Notes:        l.Notes,
			InventorySKU: l.InventorySKU,
		}
	}
	s := &domain.Sale{
		ID:            d.ID,
		OrderNumber:   d.OrderNumber,
		EmployeeID:    d.EmployeeID,
		EmployeeName:  d.EmployeeName,
		Lines:         lines,
		ItemCount:     d.ItemCount,
		Subtotal:      parseMoney(d.Subtotal),
		TaxRate:       parseMoney(d.TaxRate),
		Tax:           parseMoney(d.Tax),
		Tip:           parseMoney(d.Tip),
		Total:         parseMoney(d.Total),
		Currency:      d.Currency,
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		OrderType:     domain.OrderType(d.OrderType),
		TableNumber:   d.TableNumber,
		CustomerName:  d.CustomerName,
		Status:        domain.SaleStatus(d.Status),
		Notification:  domain.NotificationStatus(d.Notification),
		CreatedAt:     d.CreatedAt,
	}
	if d.VoidedAt != nil {
		s.VoidedAt = *d.VoidedAt
	}
	return s
}

func (r *SaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoSale(s)); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d mongoSale
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("find sale: %w", err)
	}
	return d.toDomain(), nil
}

func salesFilter(f ports.ListSalesFilter) bson.M {
	filter := bson.M{}
	created := bson.M{}
	if !f.From.IsZero() {
		created["$gte"] = f.From.UTC()
	}
	if !f.To.IsZero() {
		created["$lt"] = f.To.UTC()
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	if f.EmployeeID != "" {
		filter["employee_id"] = f.EmployeeID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

// List returns a page of sales, newest first, plus the total match count.
func (r *SaleRepository) List(ctx context.Context, f ports.ListSalesFilter) ([]*domain.Sale, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := salesFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find sales: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoSale
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode sales: %w", err)
	}
	out := make([]*domain.Sale, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

func (r *SaleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"created_at": bson.M{"$gte": from.UTC(), "$lt": to.UTC()}}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find sales: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoSale
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	out := make([]*domain.Sale, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *SaleRepository) UpdateStatus(ctx context.Context, id string, status domain.SaleStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"status": string(status)}
	if status == domain.SaleVoided {
		set["voided_at"] = at.UTC()
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *SaleRepository) UpdateNotification(ctx context.Context, id string, status domain.NotificationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"notification_status": string(status)}})
	if err != nil {
		return fmt.Errorf("update notification status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the sales collection.
func (r *SaleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
