package rider

// Rider is one entry of the season catalog. Price and Points carry the
// values for the season the rider was loaded for; a rider without a price
// or points row for that season carries 0.
type Rider struct {
	ID          string
	Name        string
	Sponsor     string
	Nationality string
	Active      bool
	Price       int64
	Points      int64
}
