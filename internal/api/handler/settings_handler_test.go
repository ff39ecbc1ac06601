package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

type stubSettingsService struct {
	current domain.Settings
	last    ports.UpdateSettingsInput
}

func (s *stubSettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	out := s.current
	return &out, nil
}

func (s *stubSettingsService) Update(ctx context.Context, in ports.UpdateSettingsInput) (*domain.Settings, error) {
	s.last = in
	if in.TaxRate != nil {
		s.current.TaxRate = *in.TaxRate
	}
	if in.Currency != nil {
		s.current.Currency = *in.Currency
	}
	return s.Get(ctx)
}

func TestSettingsHandler_Get(t *testing.T) {
	h := NewSettingsHandler(&stubSettingsService{current: domain.Settings{RestaurantName: "Bistro", Currency: "USD", TaxRate: dec("0.0825")}})

	c, rec := newContext(http.MethodGet, "/v1/settings", "")
	require.NoError(t, h.Get(c))

	var resp settingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0.0825", resp.TaxRate)
	assert.Equal(t, "USD", resp.Currency)
	assert.Empty(t, resp.UpdatedAt)
}

func TestSettingsHandler_Update_Partial(t *testing.T) {
	svc := &stubSettingsService{current: domain.Settings{Currency: "USD", TaxRate: dec("0.08")}}
	h := NewSettingsHandler(svc)

	c, rec := newContext(http.MethodPatch, "/v1/settings", `{"tax_rate":"0.16"}`)
	require.NoError(t, h.Update(c))

	require.NotNil(t, svc.last.TaxRate)
	assert.True(t, svc.last.TaxRate.Equal(dec("0.16")))
	assert.Nil(t, svc.last.Currency)
	assert.Nil(t, svc.last.RestaurantName)
	assert.Contains(t, rec.Body.String(), `"tax_rate":"0.16"`)
}

func TestSettingsHandler_Update_Validation(t *testing.T) {
	h := NewSettingsHandler(&stubSettingsService{})

	for _, body := range []string{
		`{"tax_rate":"1.5"}`,
		`{"tax_rate":"-0.01"}`,
		`{"currency":"DOLLARS"}`,
	} {
		c, _ := newContext(http.MethodPatch, "/v1/settings", body)
		requireHTTPCode(t, h.Update(c), http.StatusBadRequest)
	}
}
