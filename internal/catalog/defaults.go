package catalog

import "github.com/oilslickpad/storeops/internal/domain"

const (
	MenuMain  = "main-menu"
	MenuByUse = "shop-by-use"

	SortBestSelling = "best-selling"
	SortAlphaAsc    = "alpha-asc"
	SortCreatedDesc = "created-desc"
)

func tagRule(tag string) domain.Rule {
	return domain.Rule{Column: "tag", Relation: "equals", Condition: tag}
}

func vendorRule(vendor string) domain.Rule {
	return domain.Rule{Column: "vendor", Relation: "equals", Condition: vendor}
}

func pos(n int) *int {
	return &n
}

// DefaultCollections returns a fresh copy of the store's collection table
func DefaultCollections() []Definition {
	return []Definition{
		{Handle: "smokeshop-devices", Title: "Smokeshop Devices", Rules: []domain.Rule{tagRule("pillar:smokeshop-device")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(1)},
		{Handle: "accessories", Title: "Accessories", Rules: []domain.Rule{tagRule("pillar:accessory")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(2)},
		{Handle: "bongs", Title: "Bongs", Rules: []domain.Rule{tagRule("family:glass-bong")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(3)},
		{Handle: "dab-rigs", Title: "Dab Rigs", Rules: []domain.Rule{tagRule("family:glass-rig")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(4)},
		{Handle: "bubblers", Title: "Bubblers", Rules: []domain.Rule{tagRule("family:bubbler")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(5)},
		{Handle: "hand-pipes", Title: "Hand Pipes", Rules: []domain.Rule{tagRule("family:spoon-pipe"), tagRule("family:one-hitter")}, Disjunctive: true, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(6)},
		{Handle: "nectar-collectors", Title: "Nectar Collectors", Rules: []domain.Rule{tagRule("family:nectar-collector")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(7)},
		{
			Handle: "quartz-bangers",
			Title:  "Quartz Bangers",
			Rules: []domain.Rule{
				vendorRule("What You Need"),
				tagRule("family:banger"),
				tagRule("material:quartz"),
			},
			SortOrder: SortBestSelling,
			Menu:      MenuMain,
			Position:  pos(8),
		},
		{Handle: "carb-caps", Title: "Carb Caps", Rules: []domain.Rule{tagRule("family:carb-cap")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(9)},
		{Handle: "dab-tools", Title: "Dab Tools", Rules: []domain.Rule{tagRule("family:dab-tool")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(10)},
		{Handle: "torches", Title: "Torches", Rules: []domain.Rule{tagRule("family:torch")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(11)},
		{Handle: "flower-bowls", Title: "Flower Bowls", Rules: []domain.Rule{tagRule("family:flower-bowl")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(12)},
		{Handle: "rolling-papers", Title: "Rolling Papers", Rules: []domain.Rule{tagRule("family:rolling-paper")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(13)},
		{Handle: "grinders", Title: "Grinders", Rules: []domain.Rule{tagRule("family:grinder")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(14)},
		{Handle: "extraction-supplies", Title: "Extraction Supplies", Rules: []domain.Rule{tagRule("pillar:extraction")}, SortOrder: SortBestSelling, Menu: MenuMain, Position: pos(15)},
		{Handle: "silicone-containers", Title: "Silicone Containers", Rules: []domain.Rule{tagRule("family:silicone-container")}, SortOrder: SortAlphaAsc, Menu: MenuMain, Position: pos(16)},
		{Handle: "glass-jars", Title: "Glass Jars", Rules: []domain.Rule{tagRule("family:glass-jar")}, SortOrder: SortAlphaAsc, Menu: MenuMain, Position: pos(17)},
		{Handle: "merch", Title: "Merch", Rules: []domain.Rule{tagRule("pillar:merch")}, SortOrder: SortCreatedDesc, Menu: MenuMain, Position: pos(18)},

		{Handle: "dabbing", Title: "Dabbing", Rules: []domain.Rule{tagRule("use:dabbing")}, SortOrder: SortBestSelling, Menu: MenuByUse, Position: pos(1)},
		{Handle: "flower-smoking", Title: "Flower Smoking", Rules: []domain.Rule{tagRule("use:flower-smoking")}, SortOrder: SortBestSelling, Menu: MenuByUse, Position: pos(2)},
		{Handle: "rolling", Title: "Rolling", Rules: []domain.Rule{tagRule("use:rolling")}, SortOrder: SortBestSelling, Menu: MenuByUse, Position: pos(3)},
		{Handle: "storage", Title: "Storage", Rules: []domain.Rule{tagRule("use:storage")}, SortOrder: SortBestSelling, Menu: MenuByUse, Position: pos(4)},

		{Handle: "heady-glass", Title: "Heady Glass", Rules: []domain.Rule{tagRule("style:heady"), tagRule("style:character")}, Disjunctive: true, SortOrder: SortCreatedDesc},
		{Handle: "what-you-need", Title: "What You Need", Rules: []domain.Rule{vendorRule("What You Need")}, SortOrder: SortBestSelling, Unscoped: true},
	}
}
