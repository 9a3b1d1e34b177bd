package get_quote

import (
	getQuote "github.com/m04kA/SMC-RentalService/internal/usecase/get_quote"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

// QuoteResponse HTTP response model
type QuoteResponse struct {
	UnitID          int64           `json:"unitId"`
	Checkin         string          `json:"checkin"`
	Checkout        string          `json:"checkout"`
	TotalPrice      int64           `json:"totalPrice"`
	NightCount      int             `json:"nightCount"`
	MinStayRequired int             `json:"minStayRequired"`
	MinStayMet      bool            `json:"minStayMet"`
	Available       bool            `json:"available"`
	Nights          []NightResponse `json:"nights"`
}

// NightResponse цена одной ночи
type NightResponse struct {
	Date    string `json:"date"`
	Price   int64  `json:"price"`
	Weekend bool   `json:"weekend"`
	MinStay int    `json:"minStay"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getQuote.Response) *QuoteResponse {
	q := resp.Quote
	out := &QuoteResponse{
		UnitID:          q.UnitID,
		Checkin:         dates.Format(q.Checkin),
		Checkout:        dates.Format(q.Checkout),
		TotalPrice:      q.TotalPrice,
		NightCount:      q.NightCount,
		MinStayRequired: q.MinStayRequired,
		MinStayMet:      q.MinStayMet(),
		Available:       resp.Available,
		Nights:          make([]NightResponse, 0, len(q.Nights)),
	}
	for _, n := range q.Nights {
		out.Nights = append(out.Nights, NightResponse{
			Date:    dates.Format(n.Date),
			Price:   n.Price,
			Weekend: n.Weekend,
			MinStay: n.MinStay,
		})
	}
	return out
}
