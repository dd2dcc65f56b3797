package classify

import (
	"fmt"
	"strings"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/tags"
)

// PatternInput is what a known pattern sees of a product
type PatternInput struct {
	Title    string // lower-cased
	Analysis tags.Analysis
	Suggest  func(title string) (string, bool)
}

func (in PatternInput) titleHas(keywords ...string) bool {
	return len(matchAny(in.Title, keywords)) > 0
}

func (in PatternInput) hasFamily(f string) bool {
	return contains(in.Analysis.Families, f)
}

// KnownPattern is a catalog-specific corrective rule. Patterns run after the generic
// checks, in order; append new ones to the list rather than changing the engine.
type KnownPattern struct {
	Code     string
	Severity domain.Severity
	Match    func(in PatternInput) bool
	Message  func(in PatternInput) string
	Fix      func(in PatternInput) *domain.TagFix
}

// DefaultPatterns are the corrections this catalog has needed so far
var DefaultPatterns = []KnownPattern{
	{
		Code:     "WRONG_FAMILY_NECTAR",
		Severity: domain.SeverityCritical,
		Match: func(in PatternInput) bool {
			return in.titleHas("nectar collector", "honey straw") &&
				len(in.Analysis.Families) > 0 && !in.hasFamily("nectar-collector")
		},
		Message: func(in PatternInput) string {
			return fmt.Sprintf("nectar collector tagged as %s", strings.Join(in.Analysis.Families, ", "))
		},
		Fix: func(in PatternInput) *domain.TagFix {
			return replaceFamilies(in, "nectar-collector")
		},
	},
	{
		// Legacy tagging matched "cone" inside "silicone".
		Code:     "SILICONE_CONE_AS_ROLLING_PAPER",
		Severity: domain.SeverityCritical,
		Match: func(in PatternInput) bool {
			return in.hasFamily("rolling-paper") && in.titleHas("silicone") &&
				!in.titleHas("paper", "papers", "cones", "pre-roll", "wraps")
		},
		Message: func(in PatternInput) string {
			return "silicone product tagged as rolling paper"
		},
		Fix: func(in PatternInput) *domain.TagFix {
			fix := &domain.TagFix{Remove: []string{"family:rolling-paper", "use:rolling"}}
			if fam, ok := in.Suggest(in.Title); ok && fam != "rolling-paper" {
				fix.Add = []string{tags.New(tags.NamespaceFamily, fam).String()}
			}
			return fix
		},
	},
	{
		Code:     "TORCH_AS_DAB_RIG",
		Severity: domain.SeverityCritical,
		Match: func(in PatternInput) bool {
			return in.hasFamily("glass-rig") && in.titleHas("torch") && !in.titleHas("rig", "dab rig")
		},
		Message: func(in PatternInput) string {
			return "torch tagged as dab rig"
		},
		Fix: func(in PatternInput) *domain.TagFix {
			return replaceFamilies(in, "torch")
		},
	},
	{
		Code:     "BATTERY_AS_FLOWER_BOWL",
		Severity: domain.SeverityCritical,
		Match: func(in PatternInput) bool {
			return in.hasFamily("flower-bowl") && in.titleHas("510", "battery") && !in.titleHas("bowl")
		},
		Message: func(in PatternInput) string {
			return "vape battery tagged as flower bowl"
		},
		Fix: func(in PatternInput) *domain.TagFix {
			return replaceFamilies(in, "vape-battery")
		},
	},
	{
		Code:     "CLEANER_AS_SPOON_PIPE",
		Severity: domain.SeverityCritical,
		Match: func(in PatternInput) bool {
			return in.hasFamily("spoon-pipe") && in.titleHas("cleaner", "cleaning")
		},
		Message: func(in PatternInput) string {
			return "cleaning product tagged as spoon pipe"
		},
		Fix: func(in PatternInput) *domain.TagFix {
			return replaceFamilies(in, "cleaning-supply")
		},
	},
}

// replaceFamilies removes every family tag other than target and adds target
func replaceFamilies(in PatternInput, target string) *domain.TagFix {
	fix := &domain.TagFix{}
	for _, f := range in.Analysis.Families {
		if f != target {
			fix.Remove = append(fix.Remove, tags.New(tags.NamespaceFamily, f).String())
		}
	}
	if !in.hasFamily(target) {
		fix.Add = []string{tags.New(tags.NamespaceFamily, target).String()}
	}
	return fix
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
