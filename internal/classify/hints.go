package classify

import "strings"

// Hint maps a title keyword to a tag value
type Hint struct {
	Pattern string
	Value   string
}

// DefaultFamilyHints suggests a family for untagged products. First match wins, so
// specific phrases come before the generic words they contain.
var DefaultFamilyHints = []Hint{
	{"recycler", "glass-rig"},
	{"incycler", "glass-rig"},
	{"dab rig", "glass-rig"},
	{"nectar collector", "nectar-collector"},
	{"honey straw", "nectar-collector"},
	{"carb cap", "carb-cap"},
	{"terp pearl", "carb-cap"},
	{"banger", "banger"},
	{"quartz nail", "banger"},
	{"dab tool", "dab-tool"},
	{"dabber", "dab-tool"},
	{"torch", "torch"},
	{"ash catcher", "ash-catcher"},
	{"downstem", "downstem"},
	{"bubbler", "bubbler"},
	{"water pipe", "glass-bong"},
	{"beaker", "glass-bong"},
	{"bong", "glass-bong"},
	{"rig", "glass-rig"},
	{"one hitter", "one-hitter"},
	{"chillum", "one-hitter"},
	{"spoon", "spoon-pipe"},
	{"hand pipe", "spoon-pipe"},
	{"sherlock", "spoon-pipe"},
	{"pipe cleaner", "cleaning-supply"},
	{"pipe", "spoon-pipe"},
	{"battery", "vape-battery"},
	{"510", "vape-battery"},
	{"grinder", "grinder"},
	{"rolling tray", "rolling-tray"},
	{"tray", "rolling-tray"},
	{"rolling paper", "rolling-paper"},
	{"papers", "rolling-paper"},
	{"cones", "rolling-paper"},
	{"parchment", "extraction-supply"},
	{"ptfe", "extraction-supply"},
	{"rosin", "extraction-supply"},
	{"silicone container", "silicone-container"},
	{"silicone jar", "silicone-container"},
	{"glass jar", "glass-jar"},
	{"jar", "glass-jar"},
	{"stash", "storage-accessory"},
	{"container", "storage-accessory"},
	{"cleaner", "cleaning-supply"},
	{"bowl", "flower-bowl"},
	{"slide", "flower-bowl"},
	{"shirt", "apparel"},
	{"hoodie", "apparel"},
	{"sticker", "sticker"},
}

// DefaultMaterialHints maps title keywords to material tags
var DefaultMaterialHints = []Hint{
	{"quartz", "quartz"},
	{"silicone", "silicone"},
	{"titanium", "titanium"},
	{"ceramic", "ceramic"},
	{"borosilicate", "borosilicate"},
	{"glass", "glass"},
	{"wood", "wood"},
	{"hemp", "hemp"},
	{"stainless", "stainless-steel"},
	{"ptfe", "ptfe"},
}

// SuggestFamily returns the first family hint matching the title
func (c *Classifier) SuggestFamily(title string) (string, bool) {
	t := strings.ToLower(title)
	for _, h := range c.hints {
		if containsWord(t, h.Pattern) {
			if _, ok := c.tax.FamilyDefinition(h.Value); ok {
				return h.Value, true
			}
		}
	}
	return "", false
}

// impliedMaterials returns the materials the title mentions, in hint order
func (c *Classifier) impliedMaterials(title string) []string {
	t := strings.ToLower(title)
	var out []string
	seen := map[string]bool{}
	for _, h := range c.materials {
		if seen[h.Value] || !containsWord(t, h.Pattern) {
			continue
		}
		seen[h.Value] = true
		out = append(out, h.Value)
	}
	return out
}
