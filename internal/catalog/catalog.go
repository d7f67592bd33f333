package catalog

import (
	"math/rand"

	"amberreview/internal/model"
)

// Default is the built-in product catalog, used when no external catalog
// source is configured.
var Default = []model.Prompt{
	{ID: "p1", Name: "Auto Clapping Chopsticks", Category: "Kitchen", Image: "assets/products/p1.svg"},
	{ID: "p2", Name: "Sleep-Mode Briefcase", Category: "Work Gear", Image: "assets/products/p2.svg"},
	{ID: "p3", Name: "Social Alarm Clock", Category: "Home Appliance", Image: "assets/products/p3.svg"},
	{ID: "p4", Name: "Complimenting Scale", Category: "Health", Image: "assets/products/p4.svg"},
	{ID: "p5", Name: "Talkative Houseplant", Category: "Interior", Image: "assets/products/p5.svg"},
	{ID: "p6", Name: "Excuse-Suggestion Umbrella", Category: "Daily Item", Image: "assets/products/p6.svg"},
	{ID: "p7", Name: "Negotiating Fridge", Category: "Home Appliance", Image: "assets/products/p7.svg"},
	{ID: "p8", Name: "Shameless Doorbell", Category: "Lifestyle", Image: "assets/products/p8.svg"},
}

// Shuffle returns an independent permutation of the given prompts. Each room
// gets its own permutation at game start, so sequences are uncorrelated
// between rooms.
func Shuffle(prompts []model.Prompt) []model.Prompt {
	out := make([]model.Prompt, len(prompts))
	copy(out, prompts)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
