package ax

// traitTable decodes bit positions 0..17 of the AXTraits 64-bit bitmap into
// their label form, in the order the host defines them.
var traitTable = [18]string{
	"button",
	"link",
	"image",
	"selected",
	"playsSound",
	"keyboardKey",
	"staticText",
	"summaryElement",
	"notEnabled",
	"updatesFrequently",
	"searchField",
	"startsMediaSession",
	"adjustable",
	"allowsDirectInteraction",
	"causesPageTurn",
	"tabBar",
	"header",
	"toggle",
}

// decodeTraits expands a raw AXTraits bitmap into its labels, in table
// order.
func decodeTraits(bitmap uint64) []string {
	var labels []string
	for i, label := range traitTable {
		if bitmap&(1<<uint(i)) != 0 {
			labels = append(labels, label)
		}
	}
	return labels
}

// notableTraits is the subset the markdown serializer surfaces; traits
// redundant with the node's role are suppressed there, not here.
var notableTraits = map[string]bool{
	"notEnabled":  true,
	"selected":    true,
	"link":        true,
	"searchField": true,
	"adjustable":  true,
	"header":      true,
	"toggle":      true,
}
