package source

// catalogEntry describes one WallCharmers product. The catalog carries the
// per-SKU attributes SP-API does not return (margins, listing stats) and the
// revenue share weights used to spread period totals across products.
type catalogEntry struct {
	SKU          string
	ASIN         string
	Name         string
	Margin       float64
	TotalStock   int
	ACOS         float64
	Sessions     int
	Conversion   float64
	BSR          int
	Reviews      int
	Rating       float64
	RevenueShare float64
}

// skuCatalog is the seller's product catalog, top sellers first.
// Revenue shares sum to 1.0.
var skuCatalog = []catalogEntry{
	{SKU: "frog_tow_gol", ASIN: "B088HDWG7R", Name: "Frog Towel Hook Gold", Margin: 0.234, TotalStock: 399, ACOS: 27.59, Sessions: 234, Conversion: 4.3, BSR: 1247, Reviews: 1823, Rating: 4.7, RevenueShare: 0.23},
	{SKU: "cat_tow_gol", ASIN: "B088HDVF7V", Name: "Cat Towel Hook Gold", Margin: 0.227, TotalStock: 169, ACOS: 17.82, Sessions: 187, Conversion: 4.8, BSR: 2134, Reviews: 1456, Rating: 4.6, RevenueShare: 0.16},
	{SKU: "oct_tow_gol", ASIN: "B094NTH1CQ", Name: "Octopus Towel Hook Gold", Margin: 0.230, TotalStock: 258, ACOS: 21.19, Sessions: 156, Conversion: 5.1, BSR: 2567, Reviews: 892, Rating: 4.5, RevenueShare: 0.14},
	{SKU: "dino_tow_gol", ASIN: "B088HDJNYY", Name: "Dinosaur Towel Hook Gold", Margin: 0.275, TotalStock: 176, ACOS: 19.54, Sessions: 134, Conversion: 4.9, BSR: 3421, Reviews: 723, Rating: 4.6, RevenueShare: 0.12},
	{SKU: "skum_whi_gol_FBA", ASIN: "B071WGFMC7", Name: "Skull Medium White Gold", Margin: 0.187, TotalStock: 345, ACOS: 37.02, Sessions: 198, Conversion: 3.5, BSR: 4532, Reviews: 567, Rating: 4.4, RevenueShare: 0.10},
	{SKU: "cste_nat", ASIN: "B082WDDHSL", Name: "Castle Shelf Natural", Margin: 0.241, TotalStock: 212, ACOS: 24.10, Sessions: 121, Conversion: 3.9, BSR: 5214, Reviews: 412, Rating: 4.5, RevenueShare: 0.09},
	{SKU: "key_gol_0", ASIN: "B07JMTWDRT", Name: "Key Holder Gold", Margin: 0.219, TotalStock: 184, ACOS: 29.45, Sessions: 102, Conversion: 3.2, BSR: 6120, Reviews: 388, Rating: 4.3, RevenueShare: 0.08},
	{SKU: "anc_rus_FBA", ASIN: "B07DHBBJS6", Name: "Anchor Hook Rustic", Margin: 0.205, TotalStock: 143, ACOS: 31.77, Sessions: 94, Conversion: 2.9, BSR: 7348, Reviews: 276, Rating: 4.4, RevenueShare: 0.08},
}

// avgUnitPrice is the catalog-wide average sale price, used to estimate unit
// counts from revenue and vice versa when SP-API omits line items.
const avgUnitPrice = 45.50

// defaultMarginPct is the blended profit margin applied to live revenue.
const defaultMarginPct = 17.5
