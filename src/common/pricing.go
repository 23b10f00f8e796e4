package common

import (
	"atman/src/models"
	"atman/src/types"
)

// ResolveAmount picks the price for a booking against the given event.
// Precedence: the format-specific price (individual.price or
// group.price_per_person), then fixed.price, otherwise ErrNoPrice.
func ResolveAmount(service *models.Service, event *models.ScheduleEvent) (float64, error) {
	pricing := service.Pricing
	var value *float64
	if event.IsIndividual {
		if pricing.Individual != nil {
			value = pricing.Individual.Price
		}
	} else {
		if pricing.Group != nil {
			value = pricing.Group.PricePerPerson
		}
	}
	if value == nil && pricing.Fixed != nil {
		value = pricing.Fixed.Price
	}
	if value == nil {
		return 0, types.ErrNoPrice
	}
	return *value, nil
}
