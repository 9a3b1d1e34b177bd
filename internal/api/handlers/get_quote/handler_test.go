package get_quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache/ratecache"
	"github.com/m04kA/SMC-RentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/rates"
	getQuote "github.com/m04kA/SMC-RentalService/internal/usecase/get_quote"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

func get(h *Handler, unitID int64, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/units/%d/quote?%s", unitID, query), nil)
	req = mux.SetURLVars(req, map[string]string{"unitId": fmt.Sprint(unitID)})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Quote(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	unit, err := store.Units().Create(ctx, &domain.Unit{Name: "Flat", Capacity: 2, BasePrice: 10000})
	require.NoError(t, err)

	rateService := rates.NewService(store.Rates(), store.Units(), ratecache.Noop{}, logger.Nop())
	oracle := availability.NewOracle(store.Bookings(), store.Blocks(), logger.Nop())
	h := NewHandler(getQuote.NewUseCase(store.Units(), rateService, oracle, logger.Nop()), logger.Nop())

	rec := get(h, unit.ID, "checkin=2025-06-05&checkout=2025-06-08")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QuoteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(30000), resp.TotalPrice)
	assert.Equal(t, 3, resp.NightCount)
	assert.True(t, resp.Available)
	assert.True(t, resp.MinStayMet)
	require.Len(t, resp.Nights, 3)
	assert.Equal(t, "2025-06-05", resp.Nights[0].Date)
	assert.Equal(t, "2025-06-07", resp.Nights[2].Date)

	tests := []struct {
		name     string
		unitID   int64
		query    string
		wantCode int
	}{
		{name: "missing checkout", unitID: unit.ID, query: "checkin=2025-06-05", wantCode: http.StatusBadRequest},
		{name: "bad format", unitID: unit.ID, query: "checkin=5-6-2025&checkout=2025-06-08", wantCode: http.StatusBadRequest},
		{name: "zero nights", unitID: unit.ID, query: "checkin=2025-06-05&checkout=2025-06-05", wantCode: http.StatusBadRequest},
		{name: "stay longer than a year", unitID: unit.ID, query: "checkin=2025-01-01&checkout=2026-01-03", wantCode: http.StatusBadRequest},
		{name: "whole calendar", unitID: unit.ID, query: "checkin=0002-01-01&checkout=9999-12-31", wantCode: http.StatusBadRequest},
		{name: "unknown unit", unitID: unit.ID + 100, query: "checkin=2025-06-05&checkout=2025-06-08", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, get(h, tt.unitID, tt.query).Code)
		})
	}
}
