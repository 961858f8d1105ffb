package service

import "github.com/iliyamo/airline-seat-booking/internal/model"

// discounts are fractions of the base fare.  Categories not listed pay
// full fare.
var discounts = map[model.Category]float64{
	model.CategoryElderly:  0.25,
	model.CategoryDisabled: 0.30,
	model.CategoryInfant:   0.50,
	model.CategorySilent:   0,
}

// Fare is one row of the fare table.
type Fare struct {
	Category model.Category `json:"category"`
	Discount float64        `json:"discount"`
	Amount   float64        `json:"amount"`
}

// CalculatePrice returns base_fare × (1 − discount).  The amount is not
// rounded; callers format it to two decimals for display.  With category
// pricing disabled every category pays the base fare.
func (e *Engine) CalculatePrice(category model.Category) float64 {
	return e.opts.BaseFare * (1 - e.discount(category))
}

// Fares lists the fare for no category followed by each tagged category.
func (e *Engine) Fares() []Fare {
	out := make([]Fare, 0, len(model.Categories)+1)
	for _, c := range append([]model.Category{model.CategoryNone}, model.Categories...) {
		out = append(out, Fare{Category: c, Discount: e.discount(c), Amount: e.CalculatePrice(c)})
	}
	return out
}

func (e *Engine) discount(category model.Category) float64 {
	if !e.opts.CategoryPricing {
		return 0
	}
	return discounts[category]
}
