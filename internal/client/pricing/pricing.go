// Package pricing computes resale profit estimates for scanned products.
package pricing

// Listing describes one resale opportunity: the price a comparable listing
// sells for, what the item costs the user, and the selling overhead.
type Listing struct {
	Price    float64 // expected sale price
	Cost     float64 // what the user pays for the item
	FeeRate  float64 // marketplace fee as a fraction of the sale price
	Shipping float64 // flat shipping cost borne by the seller
}

// Fees returns the marketplace fee for the listing.
func (l Listing) Fees() float64 {
	return l.Price * l.FeeRate
}

// Profit returns the net profit after cost, fees and shipping.
func (l Listing) Profit() float64 {
	return l.Price - l.Cost - l.Fees() - l.Shipping
}

// Margin returns net profit as a fraction of the sale price.
// A zero price yields a zero margin.
func (l Listing) Margin() float64 {
	if l.Price == 0 {
		return 0
	}
	return l.Profit() / l.Price
}

// DemandScore is the sell-through rate: sold listings over all comparable
// listings, in [0,1]. Returns 0 when there are no listings at all.
func DemandScore(sold, active int) float64 {
	total := sold + active
	if total <= 0 {
		return 0
	}
	return float64(sold) / float64(total)
}
