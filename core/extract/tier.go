package extract

import "fmt"

// Tier identifies the recovery strategy that produced a result.
type Tier int

const (
	// TierNone means no tier recovered anything.
	TierNone Tier = iota
	TierFence
	TierLargestArray
	TierContainer
	TierSalvage
	TierText
)

var tierNames = map[Tier]string{
	TierNone:         "none",
	TierFence:        "fence",
	TierLargestArray: "largest-array",
	TierContainer:    "container",
	TierSalvage:      "salvage",
	TierText:         "text",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// tierFunc returns the raw candidates of one tier, or nil.
type tierFunc func(r *run) []map[string]any

type tierStep struct {
	tier Tier
	fn   tierFunc
}

// ladder is the fixed tier order.
var ladder = []tierStep{
	{TierFence, fenceTier},
	{TierLargestArray, largestArrayTier},
	{TierContainer, containerTier},
	{TierSalvage, salvageTier},
	{TierText, textTier},
}
