package gateway

import (
	"taproom/bvalue"
	"taproom/record"
)

// Read-side accessors for the boundary. Reads are lock-free: they only see
// committed keys.

func (g *Gateway) Users() ([]record.User, error) {
	return g.users.All()
}

func (g *Gateway) UserByID(id int64) (record.User, bool, error) {
	return g.users.Find(bvalue.FromInt64(id))
}

func (g *Gateway) Drinks() ([]record.Drink, error) {
	return g.drinks.All()
}

func (g *Gateway) DrinkByID(id int64) (record.Drink, bool, error) {
	return g.drinks.Find(bvalue.FromInt64(id))
}

// PricesForDrink lists the committed prices referencing one drink,
// ordered by price id.
func (g *Gateway) PricesForDrink(drinkID int64) ([]record.Price, error) {
	all, err := g.prices.All()
	if err != nil {
		return nil, err
	}

	prices := make([]record.Price, 0, len(all))
	for _, p := range all {
		if p.DrinkID == drinkID {
			prices = append(prices, p)
		}
	}
	return prices, nil
}
