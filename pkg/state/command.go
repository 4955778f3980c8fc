package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/lost-in-space/pkg/command"
	"github.com/jwebster45206/lost-in-space/pkg/world"
	"golang.org/x/text/cases"
)

// Outcome classifies how a command resolved.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeBlocked        Outcome = "blocked"
	OutcomeInvalidCommand Outcome = "invalid_command"
	OutcomeRejected       Outcome = "rejected" // Session no longer accepts this command
)

// Result is what a turn produced, for the display layer to render.
type Result struct {
	Message string
	Outcome Outcome
	Phase   Phase
	Moved   bool // True if the player changed rooms
}

const (
	msgGameEnded  = "The game has ended. Start a new game to keep playing."
	msgOutOfAir   = "Your OXYGEN has run out. GAME OVER."
	msgRestartOr  = "You have no OXYGEN left. Type NEW to start again or QUIT to leave."
	msgWon        = "You made it out alive. YOU WIN!"
	msgGoodbye    = "Thanks for playing Lost in Space."
	msgNoCommand  = "Please enter a command. Type HELP for a list of commands."
	msgCheckWhat  = "CHECK what? Try CHECK INVENTORY or CHECK OXYGEN."
	msgRestarted  = "A new game begins."
	msgLostInVoid = "You are adrift somewhere that is not on any map."
)

// Handle resolves one command against the session. It never fails: every
// input produces a Result with a player-facing message.
func (s *Session) Handle(ctx context.Context, cmd command.Command) *Result {
	if s.Phase.Terminal() {
		return s.result(msgGameEnded, OutcomeRejected)
	}
	if s.Phase == PhaseGameOver && cmd.Verb != command.VerbQuit && cmd.Verb != command.VerbRestart {
		return s.result(msgRestartOr, OutcomeRejected)
	}

	var res *Result
	switch cmd.Verb {
	case command.VerbNone:
		return s.result(msgNoCommand, OutcomeInvalidCommand)
	case command.VerbMove:
		res = s.move(cmd.Noun)
	case command.VerbTake:
		res = s.take(cmd.Noun)
	case command.VerbUse:
		res = s.use(cmd.Noun)
	case command.VerbInspect:
		res = s.inspect(cmd.Noun)
	case command.VerbCheck:
		res = s.check(cmd.Noun)
	case command.VerbHelp:
		res = s.result(HelpText, OutcomeOK)
	case command.VerbQuit:
		s.Phase = PhaseQuit
		res = s.result(msgGoodbye, OutcomeOK)
	case command.VerbRestart:
		return s.restart(ctx)
	default:
		res = s.result(fmt.Sprintf("I don't understand %q. Type HELP for a list of commands.", cmd.VerbWord()), OutcomeInvalidCommand)
	}

	s.Turn++
	if s.Phase == PhasePlaying {
		switch s.checkEndConditions() {
		case PhaseGameOver:
			res.Message += "\n\n" + msgOutOfAir
		case PhaseWon:
			res.Message += "\n\n" + msgWon
		}
	}
	res.Phase = s.Phase

	s.log.Debug("Command handled",
		"verb", cmd.Verb,
		"noun", cmd.Noun,
		"outcome", res.Outcome,
		"location", s.Location,
		"oxygen", s.Player.Oxygen(),
		"turn", s.Turn)
	return res
}

func (s *Session) result(msg string, outcome Outcome) *Result {
	return &Result{Message: msg, Outcome: outcome, Phase: s.Phase}
}

func (s *Session) move(direction string) *Result {
	if direction == "" {
		return s.result("Which way do you want to GO?", OutcomeInvalidCommand)
	}

	to, err := world.Move(s.World, s.Location, direction)
	if err != nil {
		var blocked *world.BlockedError
		if errors.As(err, &blocked) {
			return s.result(blocked.Message(), OutcomeBlocked)
		}
		// The session always points at a real room, so this is a bug.
		s.log.Error("Current room missing from world", "location", s.Location, "error", err)
		return s.result(msgLostInVoid, OutcomeNotFound)
	}

	s.Location = to
	if _, err := s.Player.ConsumeOxygen(s.opts.OxygenPerMove); err != nil {
		s.log.Error("Failed to consume oxygen", "error", err)
	}

	d, _ := world.ParseDirection(direction)
	msg := fmt.Sprintf("You move %s.\n\nYou are in the %s", d, to)
	if room, err := s.CurrentRoom(); err == nil && room.Description != "" {
		msg += "\n\n" + room.Description
	}
	res := s.result(msg, OutcomeOK)
	res.Moved = true
	return res
}

func (s *Session) take(noun string) *Result {
	if noun == "" {
		return s.result("What do you want to GET?", OutcomeInvalidCommand)
	}

	item, ok := s.World.TakeItem(s.Location, noun)
	if !ok {
		if name, carried := s.Player.Carried(noun); carried {
			return s.result(fmt.Sprintf("You already have the %s!", name), OutcomeNotFound)
		}
		return s.result(fmt.Sprintf("There is no %s here to GET!", noun), OutcomeNotFound)
	}

	if s.Player.AddItem(item.Name) {
		s.carried[fold(item.Name)] = carriedItem{Item: item, Room: s.Location}
	}
	s.log.Info("Item picked up", "item", item.Name, "location", s.Location)
	return s.result(fmt.Sprintf("You GET the %s.", item.FullName), OutcomeOK)
}

func (s *Session) use(noun string) *Result {
	if noun == "" {
		return s.result("What do you want to USE?", OutcomeInvalidCommand)
	}

	room, err := s.CurrentRoom()
	if err != nil {
		s.log.Error("Current room missing from world", "location", s.Location, "error", err)
		return s.result(msgLostInVoid, OutcomeNotFound)
	}

	display := noun
	poiRoom := ""
	if item, ok := room.Item(noun); ok {
		display = item.FullName
		poiRoom = s.Location
	} else if _, ok := room.POI(noun); ok {
		poiRoom = s.Location
	}

	carried, isCarried := s.carried[fold(noun)]
	if isCarried {
		display = carried.Item.FullName
		if _, ok := room.POI(noun); !ok {
			poiRoom = carried.Room
		}
	}

	if poiRoom == "" {
		return s.result(fmt.Sprintf("You don't have a %s to USE!", noun), OutcomeNotFound)
	}

	changed, found := s.World.MarkUsed(poiRoom, noun)
	switch {
	case !found:
		return s.result(fmt.Sprintf("Nothing happens when you USE the %s.", display), OutcomeOK)
	case !changed:
		return s.result(fmt.Sprintf("You have already USED the %s.", display), OutcomeOK)
	}

	s.log.Info("Point of interest used", "poi", noun, "room", poiRoom)
	msg := fmt.Sprintf("You USE the %s.", display)
	if desc, ok := world.DescribePOI(s.World, poiRoom, noun); ok && desc != "" {
		msg += "\n\n" + desc
	}
	return s.result(msg, OutcomeOK)
}

func (s *Session) inspect(noun string) *Result {
	if noun == "" {
		return s.result(world.SurveyRoom(s.World, s.Location), OutcomeOK)
	}

	room, err := s.CurrentRoom()
	if err == nil {
		if _, ok := room.Item(noun); ok {
			return s.describe(world.InspectTarget(s.World, s.Location, noun), noun)
		}
	}

	if carried, ok := s.carried[fold(noun)]; ok {
		if desc, found := world.DescribePOI(s.World, carried.Room, noun); found {
			return s.result(desc, OutcomeOK)
		}
	}
	return s.result(world.CannotInspect(noun), OutcomeNotFound)
}

func (s *Session) describe(desc, noun string) *Result {
	if desc == world.CannotInspect(noun) {
		return s.result(desc, OutcomeNotFound)
	}
	return s.result(desc, OutcomeOK)
}

func (s *Session) check(noun string) *Result {
	switch fold(noun) {
	case "inventory", "inv", "items":
		return s.result(describeInventory(s.Player.InventoryList()), OutcomeOK)
	case "oxygen", "o2", "air":
		return s.result(describeOxygen(s.Player.Oxygen()), OutcomeOK)
	case "status":
		return s.result(s.Status().String(), OutcomeOK)
	}
	return s.result(msgCheckWhat, OutcomeInvalidCommand)
}

func (s *Session) restart(ctx context.Context) *Result {
	if err := s.reset(ctx); err != nil {
		s.log.Error("Failed to restart session", "error", err)
		return s.result("The game could not be restarted: "+err.Error(), OutcomeRejected)
	}
	s.log.Info("Session restarted", "location", s.Location)
	return s.result(msgRestarted+"\n\n"+s.Status().String(), OutcomeOK)
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
