package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/lost-in-space/pkg/world"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.json|world.yaml> [...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &WorldValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		for _, w := range validator.warnings {
			fmt.Println(w)
		}
		fmt.Printf("%s is valid!\n", filename)
	}

	if failed {
		os.Exit(1)
	}
}

type WorldValidator struct {
	errors   []string
	warnings []string
}

func (v *WorldValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	format, ok := world.FormatFor(baseName)
	if !ok {
		return fmt.Errorf("world file must have .json, .yaml or .yml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	if !isValidWorldFilename(nameWithoutExt) {
		return fmt.Errorf("world filename '%s' must be lowercase snake_case (e.g., my_ship.json, not my-ship.json or MyShip.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil
	v.warnings = nil

	// The schema catches unknown fields and misspelled exit directions
	if format == world.FormatJSON {
		if err := world.ValidateSchema(data); err != nil {
			v.collect(err)
			return v.result(filename)
		}
	}

	def, err := world.Decode(data, format)
	if err != nil {
		return fmt.Errorf("file %s could not be decoded: %w", filename, err)
	}

	w, err := world.New(def)
	if err != nil {
		v.collect(err)
		return v.result(filename)
	}

	v.validateWorld(w)
	return v.result(filename)
}

func (v *WorldValidator) validateWorld(w *world.World) {
	for _, poi := range w.UnreachablePOIs() {
		v.addWarning(fmt.Sprintf("point of interest %s matches no item in its room and can never be inspected", poi))
	}

	reachable := reachableRooms(w)
	for _, r := range w.Rooms() {
		if !reachable[r.Name] {
			v.addWarning(fmt.Sprintf("room '%s' cannot be reached from the start room '%s'", r.Name, w.StartRoom()))
		}
		if r.Exits == (world.Exit{}) && len(w.Rooms()) > 1 {
			v.addWarning(fmt.Sprintf("room '%s' has no exits", r.Name))
		}
	}
}

// reachableRooms walks exits breadth first from the start room.
func reachableRooms(w *world.World) map[string]bool {
	seen := map[string]bool{w.StartRoom(): true}
	queue := []string{w.StartRoom()}
	for len(queue) > 0 {
		room, err := w.FindRoom(queue[0])
		queue = queue[1:]
		if err != nil {
			continue
		}
		for _, d := range world.Directions {
			to := room.Exits.To(d)
			if to != "" && !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return seen
}

func (v *WorldValidator) collect(err error) {
	var verr *world.ValidationError
	if errors.As(err, &verr) {
		for _, p := range verr.Problems {
			v.addError(p)
		}
		return
	}
	v.addError(err.Error())
}

func (v *WorldValidator) result(filename string) error {
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *WorldValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *WorldValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  warning: "+msg)
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidWorldFilename(name string) bool {
	// Allow 'x.' prefix for experimental worlds
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
