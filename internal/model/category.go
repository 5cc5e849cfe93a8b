package model

// Categories is the fixed set an item's category must belong to.
var Categories = []string{
	"Poké Balls",
	"Healing Items",
	"Status Items",
	"Battle Items",
	"TMs & HMs",
	"Berries",
	"Key Items",
	"Evolution Items",
}

func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
