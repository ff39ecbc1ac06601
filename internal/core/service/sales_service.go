package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

const (
	defaultSalesLimit = 20
	maxSalesLimit     = 100
	topItemsCount     = 5
)

type SalesService struct {
	repo ports.SaleRepository
}

func NewSalesService(repo ports.SaleRepository) *SalesService {
	return &SalesService{repo: repo}
}

func (s *SalesService) ListSales(ctx context.Context, f ports.ListSalesFilter) (*ports.ListSalesResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultSalesLimit
	}
	if f.Limit > maxSalesLimit {
		f.Limit = maxSalesLimit
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.ListSalesResult{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int((total + int64(f.Limit) - 1) / int64(f.Limit)),
	}, nil
}

// Summary aggregates completed sales created in [from, to).
func (s *SalesService) Summary(ctx context.Context, from, to time.Time) (*ports.SalesSummary, error) {
	sales, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return summarize(sales, from, to), nil
}

func summarize(sales []*domain.Sale, from, to time.Time) *ports.SalesSummary {
	sum := &ports.SalesSummary{
		From:            from,
		To:              to,
		Gross:           decimal.Zero,
		Subtotal:        decimal.Zero,
		Tax:             decimal.Zero,
		Tips:            decimal.Zero,
		AverageTicket:   decimal.Zero,
		ByPaymentMethod: make(map[string]decimal.Decimal),
		TopItems:        []ports.ItemSales{},
		Daily:           []ports.DaySales{},
	}

	items := make(map[string]*ports.ItemSales)
	days := make(map[string]*ports.DaySales)

	for _, sale := range sales {
		if sale.Status != domain.SaleCompleted {
			continue
		}
		sum.Count++
		sum.Gross = sum.Gross.Add(sale.Total)
		sum.Subtotal = sum.Subtotal.Add(sale.Subtotal)
		sum.Tax = sum.Tax.Add(sale.Tax)
		sum.Tips = sum.Tips.Add(sale.Tip)

		pm := string(sale.PaymentMethod)
		sum.ByPaymentMethod[pm] = sum.ByPaymentMethod[pm].Add(sale.Total)

		day := sale.CreatedAt.UTC().Format("2006-01-02")
		d, ok := days[day]
		if !ok {
			d = &ports.DaySales{Date: day, Gross: decimal.Zero}
			days[day] = d
		}
		d.Count++
		d.Gross = d.Gross.Add(sale.Total)

		for _, line := range sale.Lines {
			it, ok := items[line.MenuItemID]
			if !ok {
				it = &ports.ItemSales{MenuItemID: line.MenuItemID, Name: line.Name, Revenue: decimal.Zero}
				items[line.MenuItemID] = it
			}
			it.Quantity += line.Quantity
			it.Revenue = it.Revenue.Add(line.Total())
		}
	}

	if sum.Count > 0 {
		sum.AverageTicket = domain.RoundMoney(sum.Gross.Div(decimal.NewFromInt(int64(sum.Count))))
	}

	for _, it := range items {
		sum.TopItems = append(sum.TopItems, *it)
	}
	sort.Slice(sum.TopItems, func(i, j int) bool {
		a, b := sum.TopItems[i], sum.TopItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(sum.TopItems) > topItemsCount {
		sum.TopItems = sum.TopItems[:topItemsCount]
	}

	for _, d := range days {
		sum.Daily = append(sum.Daily, *d)
	}
	sort.Slice(sum.Daily, func(i, j int) bool { return sum.Daily[i].Date < sum.Daily[j].Date })

	return sum
}
