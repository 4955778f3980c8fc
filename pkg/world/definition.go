package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a world data file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Definition is the on-disk shape of a world.
type Definition struct {
	Title     string           `json:"title,omitempty" yaml:"title,omitempty"`
	StartRoom string           `json:"startRoom,omitempty" yaml:"startRoom,omitempty"` // Defaults to the first room
	Rooms     []RoomDefinition `json:"rooms" yaml:"rooms" validate:"required,min=1,dive"`
}

// RoomDefinition is the on-disk shape of a room.
type RoomDefinition struct {
	Name             string          `json:"name" yaml:"name" validate:"required"`
	Description      string          `json:"description" yaml:"description"`
	Items            []Item          `json:"items" yaml:"items" validate:"dive"`
	PointsOfInterest []POIDefinition `json:"pointsOfInterest" yaml:"pointsOfInterest" validate:"dive"`
	Exits            Exit            `json:"exits" yaml:"exits"`
}

// POIDefinition is the on-disk shape of a point of interest.
type POIDefinition struct {
	Name            string `json:"name" yaml:"name" validate:"required"`
	Description     string `json:"description" yaml:"description"`
	UsedDescription string `json:"usedDescription" yaml:"usedDescription"`
	Used            bool   `json:"used" yaml:"used"`
}

// ValidationError lists every problem found in a definition.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid world: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Decode parses a world definition in the given format.
func Decode(data []byte, format Format) (*Definition, error) {
	var def Definition
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to unmarshal world JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to unmarshal world YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported world format %q", format)
	}
	return &def, nil
}

// FormatFor picks the format from a file extension.
func FormatFor(filename string) (Format, bool) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, true
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, true
	}
	return "", false
}

// New validates a definition and builds the indexed world graph.
func New(def *Definition) (*World, error) {
	if def == nil {
		return nil, errors.New("world definition cannot be nil")
	}

	verr := &ValidationError{}
	if err := structValidator.Struct(def); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate world: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add("%s failed %q", fe.Namespace(), fe.Tag())
		}
		return nil, verr
	}

	w := &World{
		Title: def.Title,
		rooms: make([]*Room, 0, len(def.Rooms)),
		index: make(map[string]int, len(def.Rooms)),
	}
	for _, rd := range def.Rooms {
		if _, dup := w.index[rd.Name]; dup {
			verr.add("duplicate room name %q", rd.Name)
			continue
		}
		room := &Room{
			Name:        rd.Name,
			Description: rd.Description,
			Items:       append(make([]Item, 0, len(rd.Items)), rd.Items...),
			POIs:        make([]PointOfInterest, 0, len(rd.PointsOfInterest)),
			Exits:       rd.Exits,
		}
		for _, pd := range rd.PointsOfInterest {
			poi := PointOfInterest{
				Name:            pd.Name,
				Description:     pd.Description,
				UsedDescription: pd.UsedDescription,
			}
			if pd.Used {
				poi.State = Used
			}
			room.POIs = append(room.POIs, poi)
		}
		room.reindex()
		w.index[room.Name] = len(w.rooms)
		w.rooms = append(w.rooms, room)
	}

	for _, room := range w.rooms {
		for _, d := range Directions {
			to := room.Exits.To(d)
			if to == "" {
				continue
			}
			if _, ok := w.index[to]; !ok {
				verr.add("room %q exit %s leads to unknown room %q", room.Name, d, to)
			}
		}
	}

	w.start = def.StartRoom
	if w.start == "" {
		w.start = w.rooms[0].Name
	} else if _, ok := w.index[w.start]; !ok {
		verr.add("start room %q does not exist", w.start)
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}
	return w, nil
}

// Load decodes and validates a world in one step.
func Load(data []byte, format Format) (*World, error) {
	def, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return New(def)
}

// Definition converts the world back into its on-disk shape.
func (w *World) Definition() *Definition {
	def := &Definition{
		Title:     w.Title,
		StartRoom: w.start,
		Rooms:     make([]RoomDefinition, 0, len(w.rooms)),
	}
	for _, r := range w.rooms {
		rd := RoomDefinition{
			Name:             r.Name,
			Description:      r.Description,
			Items:            append([]Item{}, r.Items...),
			PointsOfInterest: make([]POIDefinition, 0, len(r.POIs)),
			Exits:            r.Exits,
		}
		for _, p := range r.POIs {
			rd.PointsOfInterest = append(rd.PointsOfInterest, POIDefinition{
				Name:            p.Name,
				Description:     p.Description,
				UsedDescription: p.UsedDescription,
				Used:            p.Used(),
			})
		}
		def.Rooms = append(def.Rooms, rd)
	}
	return def
}

// UnreachablePOIs lists points of interest whose name matches no item in the
// same room. They can never be inspected.
func (w *World) UnreachablePOIs() []string {
	var out []string
	for _, r := range w.rooms {
		for _, p := range r.POIs {
			if _, ok := r.Item(p.Name); !ok {
				out = append(out, fmt.Sprintf("%s/%s", r.Name, p.Name))
			}
		}
	}
	return out
}
