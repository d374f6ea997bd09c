package market

// Listing is one tradable symbol shown in the UI picker.
type Listing struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Listings returns the built-in DSE symbol directory.
func Listings() []Listing {
	return []Listing{
		{Symbol: "GP", Name: "Grameenphone Ltd"},
		{Symbol: "SQUARE", Name: "Square Pharmaceuticals Ltd"},
		{Symbol: "BEXIMCO", Name: "Beximco Pharmaceuticals Ltd"},
		{Symbol: "RENATA", Name: "Renata Limited"},
		{Symbol: "ACI", Name: "ACI Limited"},
		{Symbol: "BRACBANK", Name: "BRAC Bank Limited"},
		{Symbol: "EBL", Name: "Eastern Bank Limited"},
		{Symbol: "DUTCHBANGLA", Name: "Dutch-Bangla Bank Limited"},
		{Symbol: "BANKASIA", Name: "Bank Asia Limited"},
		{Symbol: "IFIC", Name: "IFIC Bank Limited"},
	}
}
