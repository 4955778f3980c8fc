package command

import (
	"strings"

	"golang.org/x/text/cases"
)

// Verb is a canonical command verb. Synonyms are resolved by Parse.
type Verb string

const (
	VerbMove    Verb = "move"
	VerbTake    Verb = "take"
	VerbUse     Verb = "use"
	VerbInspect Verb = "inspect"
	VerbCheck   Verb = "check"
	VerbHelp    Verb = "help"
	VerbQuit    Verb = "quit"
	VerbRestart Verb = "restart"
	VerbUnknown Verb = "unknown"
	VerbNone    Verb = "" // Blank input
)

// synonyms maps every accepted verb to its canonical form.
var synonyms = map[string]Verb{
	"go":       VerbMove,
	"walk":     VerbMove,
	"move":     VerbMove,
	"get":      VerbTake,
	"take":     VerbTake,
	"grab":     VerbTake,
	"use":      VerbUse,
	"inspect":  VerbInspect,
	"look":     VerbInspect,
	"examine":  VerbInspect,
	"search":   VerbInspect,
	"check":    VerbCheck,
	"help":     VerbHelp,
	"commands": VerbHelp,
	"quit":     VerbQuit,
	"exit":     VerbQuit,
	"escape":   VerbQuit,
	"new":      VerbRestart,
	"restart":  VerbRestart,
}

// Nouns that mean "the room itself" for inspection verbs.
var roomNouns = map[string]bool{
	"room":   true,
	"area":   true,
	"around": true,
}

var articles = map[string]bool{
	"the": true,
	"a":   true,
	"an":  true,
}

// Command is a normalized verb and optional noun.
type Command struct {
	Verb Verb
	Noun string // Empty when absent
	Raw  string // Input as typed
}

// HasNoun reports whether a noun was given.
func (c Command) HasNoun() bool {
	return c.Noun != ""
}

// String renders the command as "verb noun".
func (c Command) String() string {
	if c.Noun == "" {
		return string(c.Verb)
	}
	return string(c.Verb) + " " + c.Noun
}

// Parse splits raw input into a canonical command. The first word is the verb;
// the remaining words, minus leading articles, are the noun.
func Parse(raw string) Command {
	cmd := Command{Raw: raw}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		cmd.Verb = VerbNone
		return cmd
	}

	verb, ok := synonyms[fold(fields[0])]
	if !ok {
		cmd.Verb = VerbUnknown
		cmd.Noun = strings.Join(fields[1:], " ")
		return cmd
	}
	cmd.Verb = verb

	rest := fields[1:]
	for len(rest) > 1 && articles[fold(rest[0])] {
		rest = rest[1:]
	}
	cmd.Noun = strings.Join(rest, " ")

	if verb == VerbInspect && roomNouns[fold(cmd.Noun)] {
		cmd.Noun = ""
	}
	return cmd
}

// VerbWord returns the first word of the raw input, for "not understood"
// messages.
func (c Command) VerbWord() string {
	fields := strings.Fields(c.Raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func fold(s string) string {
	return cases.Fold().String(s)
}
