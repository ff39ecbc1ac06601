package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type checkoutRequest struct {
	CartID        string          `json:"cart_id"        validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash card"`
	OrderType     string          `json:"order_type"     validate:"required,oneof=dine_in takeout"`
	TableNumber   int             `json:"table_number"   validate:"gte=0,lte=999"`
	CustomerName  string          `json:"customer_name"  validate:"max=100"`
	Tip           decimal.Decimal `json:"tip"            validate:"gte=0"`
}

type saleResponse struct {
	ID            string         `json:"id"`
	OrderNumber   string         `json:"order_number"`
	EmployeeID    string         `json:"employee_id"`
	EmployeeName  string         `json:"employee_name"`
	Lines         []lineResponse `json:"lines"`
	Totals        totalsResponse `json:"totals"`
	PaymentMethod string         `json:"payment_method"`
	OrderType     string         `json:"order_type"`
	TableNumber   int            `json:"table_number,omitempty"`
	CustomerName  string         `json:"customer_name,omitempty"`
	Status        string         `json:"status"`
	Notification  string         `json:"notification_status"`
	CreatedAt     string         `json:"created_at"`
	VoidedAt      string         `json:"voided_at,omitempty"`
}

type listSalesResponse struct {
	Items      []saleResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type itemSalesResponse struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Revenue    string `json:"revenue"`
}

type daySalesResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Gross string `json:"gross"`
}

type summaryResponse struct {
	From            string              `json:"from"`
	To              string              `json:"to"`
	Count           int                 `json:"count"`
	Gross           string              `json:"gross"`
	Subtotal        string              `json:"subtotal"`
	Tax             string              `json:"tax"`
	Tips            string              `json:"tips"`
	AverageTicket   string              `json:"average_ticket"`
	ByPaymentMethod map[string]string   `json:"by_payment_method"`
	TopItems        []itemSalesResponse `json:"top_items"`
	Daily           []daySalesResponse  `json:"daily"`
}

func toSaleResponse(s *domain.Sale) saleResponse {
	resp := saleResponse{
		ID:           s.ID,
		OrderNumber:  s.OrderNumber,
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		Lines:        toLineResponses(s.Lines),
		Totals: totalsResponse{
			ItemCount: s.ItemCount,
			Subtotal:  money(s.Subtotal),
			TaxRate:   s.TaxRate.String(),
			Tax:       money(s.Tax),
			Tip:       money(s.Tip),
			Total:     money(s.Total),
			Currency:  s.Currency,
		},
		PaymentMethod: string(s.PaymentMethod),
		OrderType:     string(s.OrderType),
		TableNumber:   s.TableNumber,
		CustomerName:  s.CustomerName,
		Status:        string(s.Status),
		Notification:  string(s.Notification),
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	if !s.VoidedAt.IsZero() {
		resp.VoidedAt = s.VoidedAt.Format(time.RFC3339)
	}
	return resp
}

func toSummaryResponse(s *ports.SalesSummary) summaryResponse {
	resp := summaryResponse{
		From:            s.From.Format(time.RFC3339),
		To:              s.To.Format(time.RFC3339),
		Count:           s.Count,
		Gross:           money(s.Gross),
		Subtotal:        money(s.Subtotal),
		Tax:             money(s.Tax),
		Tips:            money(s.Tips),
		AverageTicket:   money(s.AverageTicket),
		ByPaymentMethod: make(map[string]string, len(s.ByPaymentMethod)),
		TopItems:        make([]itemSalesResponse, len(s.TopItems)),
		Daily:           make([]daySalesResponse, len(s.Daily)),
	}
	for pm, total := range s.ByPaymentMethod {
		resp.ByPaymentMethod[pm] = money(total)
	}
	for i, it := range s.TopItems {
		resp.TopItems[i] = itemSalesResponse{MenuItemID: it.MenuItemID, Name: it.Name, Quantity: it.Quantity, Revenue: money(it.Revenue)}
	}
	for i, d := range s.Daily {
		resp.Daily[i] = daySalesResponse{Date: d.Date, Count: d.Count, Gross: money(d.Gross)}
	}
	return resp
}
