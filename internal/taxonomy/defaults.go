package taxonomy

import "github.com/oilslickpad/storeops/internal/tags"

// Pillars
const (
	PillarSmokeshopDevice = "smokeshop-device"
	PillarAccessory       = "accessory"
	PillarPackaging       = "packaging"
	PillarExtraction      = "extraction"
	PillarMerch           = "merch"
)

// Uses
const (
	UseDabbing       = "dabbing"
	UseFlowerSmoking = "flower-smoking"
	UseRolling       = "rolling"
	UseStorage       = "storage"
	UseVaping        = "vaping"
	UsePreparation   = "preparation"
	UseCleaning      = "cleaning"
	UseExtraction    = "extraction"
)

// DefaultFamilies is the store's family table in declaration order
var DefaultFamilies = []Family{
	{Name: "glass-bong", Pillar: PillarSmokeshopDevice, Use: UseFlowerSmoking, Materials: []string{"glass", "borosilicate", "silicone"}},
	{Name: "bubbler", Pillar: PillarSmokeshopDevice, Use: UseFlowerSmoking, Materials: []string{"glass", "silicone"}},
	{Name: "glass-rig", Pillar: PillarSmokeshopDevice, Use: UseDabbing, Materials: []string{"glass", "borosilicate", "silicone"}},
	{Name: "nectar-collector", Pillar: PillarSmokeshopDevice, Use: UseDabbing, Materials: []string{"glass", "silicone", "quartz", "titanium"}},
	{Name: "spoon-pipe", Pillar: PillarSmokeshopDevice, Use: UseFlowerSmoking, Materials: []string{"glass", "silicone", "metal", "wood"}},
	{Name: "one-hitter", Pillar: PillarSmokeshopDevice, Use: UseFlowerSmoking, Materials: []string{"glass", "metal", "ceramic", "wood"}},
	{Name: "vape-battery", Pillar: PillarSmokeshopDevice, Use: UseVaping, Materials: []string{"metal"}},
	{Name: "banger", Pillar: PillarAccessory, Use: UseDabbing, Materials: []string{"quartz", "titanium", "ceramic"}},
	{Name: "carb-cap", Pillar: PillarAccessory, Use: UseDabbing, Materials: []string{"glass", "quartz", "titanium"}},
	{Name: "dab-tool", Pillar: PillarAccessory, Use: UseDabbing, Materials: []string{"metal", "titanium", "glass", "silicone"}},
	{Name: "torch", Pillar: PillarAccessory, Use: UseDabbing, Materials: []string{"metal"}},
	{Name: "flower-bowl", Pillar: PillarAccessory, Use: UseFlowerSmoking, Materials: []string{"glass", "silicone", "metal"}},
	{Name: "downstem", Pillar: PillarAccessory, Use: UseFlowerSmoking, Materials: []string{"glass"}},
	{Name: "ash-catcher", Pillar: PillarAccessory, Use: UseFlowerSmoking, Materials: []string{"glass"}},
	{Name: "grinder", Pillar: PillarAccessory, Use: UsePreparation, Materials: []string{"metal", "plastic", "wood"}},
	{Name: "rolling-paper", Pillar: PillarAccessory, Use: UseRolling, Materials: []string{"paper", "hemp"}},
	{Name: "rolling-tray", Pillar: PillarAccessory, Use: UseRolling, Materials: []string{"metal", "plastic", "wood"}},
	{Name: "cleaning-supply", Pillar: PillarAccessory, Use: UseCleaning},
	{Name: "storage-accessory", Pillar: PillarAccessory, Use: UseStorage, Materials: []string{"glass", "silicone", "plastic", "metal"}},
	{Name: "silicone-container", Pillar: PillarPackaging, Use: UseStorage, Materials: []string{"silicone"}},
	{Name: "glass-jar", Pillar: PillarPackaging, Use: UseStorage, Materials: []string{"glass"}},
	{Name: "extraction-supply", Pillar: PillarExtraction, Use: UseExtraction, Materials: []string{"paper", "silicone", "ptfe", "stainless-steel"}},
	{Name: "apparel", Pillar: PillarMerch, Materials: []string{"cotton"}},
	{Name: "sticker", Pillar: PillarMerch},
}

// DefaultValues lists namespace values not implied by the family table
var DefaultValues = map[tags.Namespace][]string{
	tags.NamespaceMaterial: {"glass", "borosilicate", "quartz", "silicone", "titanium", "ceramic", "metal", "stainless-steel", "wood", "pvc", "plastic", "hemp", "paper", "cotton", "ptfe"},
	tags.NamespaceBrand:    {"what-you-need", "oil-slick", "cloud-yhs", "raw", "zig-zag", "elements", "vibes"},
	tags.NamespaceStyle:    {"heady", "scientific", "novelty", "character", "travel", "mini", "recycler"},
}

// Default returns the store's taxonomy
func Default() *Taxonomy {
	return MustNew(DefaultFamilies, DefaultValues)
}
