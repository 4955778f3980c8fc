package world

import "strings"

// CannotInspect is the fallback for anything that cannot be inspected.
func CannotInspect(target string) string {
	return "I cannot INSPECT " + target + "!"
}

// SurveyRoom lists the items in a room followed by its exits in north, south,
// east, west order. An unknown room yields the same sparse survey as an empty one.
func SurveyRoom(w *World, roomName string) string {
	var b strings.Builder
	b.WriteString("You survey the area. \n\nYou're able to find: \n")

	room, err := w.FindRoom(roomName)
	if err == nil {
		for _, it := range room.Items {
			b.WriteString("- " + it.FullName + "\n")
		}
	}

	b.WriteString("\nExits: \n")
	if err == nil {
		for _, d := range Directions {
			if to := room.Exits.To(d); to != "" {
				b.WriteString("- " + d.Label() + ": " + to + "\n")
			}
		}
	}
	b.WriteString("\n")
	return b.String()
}

// InspectTarget describes an item in the room through its point of interest.
// Targets that are not items here, or items without a point of interest,
// get the CannotInspect fallback.
func InspectTarget(w *World, roomName, target string) string {
	room, err := w.FindRoom(roomName)
	if err != nil {
		return CannotInspect(target)
	}
	if _, ok := room.Item(target); !ok {
		return CannotInspect(target)
	}
	if desc, ok := DescribePOI(w, roomName, target); ok {
		return desc
	}
	return CannotInspect(target)
}

// DescribePOI returns the state-dependent description of a point of interest.
func DescribePOI(w *World, roomName, name string) (string, bool) {
	room, err := w.FindRoom(roomName)
	if err != nil {
		return "", false
	}
	poi, ok := room.POI(name)
	if !ok {
		return "", false
	}
	return poi.Describe(), true
}
