package transport

import "strings"

var colorNames = map[string]string{
	"#ffffff": "White",
	"#000000": "Black",
	"#ff0000": "Red",
	"#00ff00": "Green",
	"#0000ff": "Blue",
	"#ffff00": "Yellow",
	"#ff00ff": "Magenta",
	"#00ffff": "Cyan",
	"#ffa500": "Orange",
	"#800080": "Purple",
	"#ffc0cb": "Pink",
	"#a52a2a": "Brown",
	"#808080": "Gray",
	"#c0c0c0": "Silver",
	"#ffd700": "Gold",
	"#f4a4c0": "Rose Gold",
}

// ColorName gives a display name for the common hex values, falling back
// to the raw hex.
func ColorName(hex string) string {
	if name, ok := colorNames[strings.ToLower(hex)]; ok {
		return name
	}
	return "Color " + hex
}
