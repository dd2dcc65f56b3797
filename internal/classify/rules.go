package classify

// NumericRule adjusts a family's score when a number found in the text falls in
// [Min, Max]. A zero Max means unbounded.
type NumericRule struct {
	Signal Signal
	Min    float64
	Max    float64
	Delta  int
}

func (r NumericRule) applies(v float64) bool {
	return v >= r.Min && (r.Max == 0 || v <= r.Max)
}

// FamilyRule scores one family. Name is the rule identifier used by overrides and
// vendor shortcuts; Family is the tag value it assigns.
type FamilyRule struct {
	Name     string
	Family   string
	Keywords []string
	Exclude  []string
	Numeric  []NumericRule
}

// Override classifies unconditionally when any keyword appears in the title
type Override struct {
	Keywords []string
	Rule     string
}

// VendorShortcut classifies every product of a vendor that only sells one family
type VendorShortcut struct {
	Vendor string
	Rule   string
}

const (
	keywordScore = 2
	excludeScore = -3
	minScore     = 2
	fullScore    = 6.0
)

// DefaultRules is evaluated in order; the first rule reaching minScore wins.
// The order is part of the contract: a title matching two families resolves to
// whichever comes first here.
var DefaultRules = []FamilyRule{
	{
		Name:     "bong",
		Family:   "glass-bong",
		Keywords: []string{"bong", "water pipe", "waterpipe", "beaker", "straight tube", "percolator"},
		Exclude:  []string{"rig", "banger", "bowl", "downstem", "ash catcher", "cleaner", "sticker"},
		Numeric: []NumericRule{
			{Signal: SignalHeight, Min: 10, Delta: 2},
			{Signal: SignalHeight, Min: 0, Max: 5.99, Delta: -1},
		},
	},
	{
		Name:     "bubbler",
		Family:   "bubbler",
		Keywords: []string{"bubbler"},
		Exclude:  []string{"rig"},
	},
	{
		Name:     "dabRig",
		Family:   "glass-rig",
		Keywords: []string{"dab rig", "rig", "oil rig", "recycler"},
		Exclude:  []string{"banger", "carb cap", "tool", "torch", "paper"},
		Numeric: []NumericRule{
			{Signal: SignalHeight, Min: 0, Max: 8, Delta: 1},
			{Signal: SignalHeight, Min: 12, Delta: -2},
		},
	},
	{
		Name:     "nectar",
		Family:   "nectar-collector",
		Keywords: []string{"nectar collector", "nectar", "honey straw", "dab straw"},
	},
	{
		Name:     "spoonPipe",
		Family:   "spoon-pipe",
		Keywords: []string{"spoon pipe", "hand pipe", "glass pipe", "pipe", "sherlock"},
		Exclude:  []string{"water pipe", "bubbler", "one hitter", "cleaner"},
	},
	{
		Name:     "oneHitter",
		Family:   "one-hitter",
		Keywords: []string{"one hitter", "one-hitter", "chillum", "dugout"},
	},
	{
		Name:     "vapeBattery",
		Family:   "vape-battery",
		Keywords: []string{"battery", "510", "vape pen"},
		Exclude:  []string{"charger only"},
	},
	{
		Name:     "banger",
		Family:   "banger",
		Keywords: []string{"banger", "quartz", "terp slurper", "nail", "bucket"},
		Exclude:  []string{"set", "kit", "rig"},
	},
	{
		Name:     "carbCap",
		Family:   "carb-cap",
		Keywords: []string{"carb cap", "bubble cap", "directional cap", "spinner cap", "terp pearl"},
		Exclude:  []string{"banger"},
	},
	{
		Name:     "dabTool",
		Family:   "dab-tool",
		Keywords: []string{"dab tool", "dabber", "wax tool", "carving tool"},
	},
	{
		Name:     "torch",
		Family:   "torch",
		Keywords: []string{"torch", "butane"},
	},
	{
		Name:     "flowerBowl",
		Family:   "flower-bowl",
		Keywords: []string{"bowl", "slide"},
		Exclude:  []string{"ashtray", "grinder", "container"},
		Numeric: []NumericRule{
			{Signal: SignalJoint, Min: 10, Delta: 1},
		},
	},
	{
		Name:     "downstem",
		Family:   "downstem",
		Keywords: []string{"downstem", "down stem", "diffuser"},
	},
	{
		Name:     "ashCatcher",
		Family:   "ash-catcher",
		Keywords: []string{"ash catcher", "ashcatcher", "pre-cooler", "precooler"},
	},
	{
		Name:     "grinder",
		Family:   "grinder",
		Keywords: []string{"grinder", "kief"},
	},
	{
		Name:     "rollingPaper",
		Family:   "rolling-paper",
		Keywords: []string{"rolling paper", "papers", "cones", "pre-roll", "pre roll", "wraps", "filter tips"},
		Exclude:  []string{"tray", "silicone", "holder"},
	},
	{
		Name:     "rollingTray",
		Family:   "rolling-tray",
		Keywords: []string{"rolling tray", "tray"},
	},
	{
		Name:     "cleaning",
		Family:   "cleaning-supply",
		Keywords: []string{"cleaner", "cleaning", "isopropyl", "res gel"},
	},
	{
		Name:     "siliconeContainer",
		Family:   "silicone-container",
		Keywords: []string{"silicone container", "silicone jar", "nonstick container", "non-stick container"},
	},
	{
		Name:     "glassJar",
		Family:   "glass-jar",
		Keywords: []string{"glass jar", "concentrate jar"},
	},
	{
		Name:     "storage",
		Family:   "storage-accessory",
		Keywords: []string{"stash", "storage", "container", "jar", "case"},
	},
	{
		Name:     "extraction",
		Family:   "extraction-supply",
		Keywords: []string{"parchment", "ptfe", "rosin bag", "rosin press", "extraction", "slick pad", "fep"},
	},
	{
		Name:     "apparel",
		Family:   "apparel",
		Keywords: []string{"t-shirt", "shirt", "hoodie", "beanie", "snapback", "tee"},
	},
	{
		Name:     "sticker",
		Family:   "sticker",
		Keywords: []string{"sticker", "decal"},
	},
}

// DefaultOverrides are checked before the scored loop
var DefaultOverrides = []Override{
	{Keywords: []string{"recycler", "incycler", "klein"}, Rule: "dabRig"},
}

// DefaultVendorShortcuts are checked before everything else
var DefaultVendorShortcuts = []VendorShortcut{
	{Vendor: "oil slick", Rule: "extraction"},
}
