package f1

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// FallbackRed is used when a driver has no usable team color.
const FallbackRed = "#E10600"

// CompoundColors maps normalized compound labels to display colors.
var CompoundColors = map[string]string{
	CompoundSoft:         "#FF3333",
	CompoundMedium:       "#FFC700",
	CompoundHard:         "#FFFFFF",
	CompoundIntermediate: "#39B54A",
	CompoundWet:          "#0067FF",
	CompoundUnknown:      "#888888",
}

// comparisonColors disambiguate teammates that share a team color.
var comparisonColors = []string{
	"#00D2BE", // teal
	"#FF8700", // orange
	"#BF00FF", // purple
	"#FFD700", // gold
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

// NormalizeTeamColor validates a source team color (hex digits without the
// '#' prefix) and returns it prefixed, or FallbackRed when unusable.
func NormalizeTeamColor(teamColour string) string {
	if teamColour != "" {
		candidate := "#" + teamColour
		if hexColorRe.MatchString(candidate) {
			return candidate
		}
	}
	return FallbackRed
}

// AssignDriverColors assigns each driver a unique display color keyed by
// driver number. Teammates sharing a team color fall back to a fixed
// disambiguation palette, then to a color hashed from the driver number.
func AssignDriverColors(drivers []Driver) map[int]string {
	colors := make(map[int]string, len(drivers))
	used := make(map[string]bool)
	fallbackIdx := 0

	for _, d := range drivers {
		color := strings.ToUpper(NormalizeTeamColor(d.TeamColour))

		if used[color] {
			found := false
			for fallbackIdx < len(comparisonColors) {
				candidate := strings.ToUpper(comparisonColors[fallbackIdx])
				fallbackIdx++
				if !used[candidate] {
					color = candidate
					found = true
					break
				}
			}
			if !found {
				color = hashedColor(d.Number)
			}
		}

		used[color] = true
		colors[d.Number] = color
	}

	return colors
}

func hashedColor(driverNumber int) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d", driverNumber)
	return fmt.Sprintf("#%06X", h.Sum32()%0xFFFFFF)
}
