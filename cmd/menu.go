package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/desertthunder/plsaver/internal/shared"
	"github.com/desertthunder/plsaver/internal/tasks"
	"github.com/urfave/cli/v3"
)

// menuState is a node of the interactive menu. Every command returns to stateIdle except stateExit.
type menuState int

const (
	stateIdle menuState = iota
	stateSaveAll
	stateSaveOne
	stateListIDs
	stateExit
)

// parseChoice maps a menu selection to its state; false means the input is not an option.
func parseChoice(input string) (menuState, bool) {
	switch input {
	case "1":
		return stateSaveAll, true
	case "2":
		return stateSaveOne, true
	case "3":
		return stateListIDs, true
	case "4":
		return stateExit, true
	default:
		return stateIdle, false
	}
}

func trimLine(s string) string {
	return strings.TrimSpace(s)
}

// Menu authenticates and then loops over the interactive menu until Exit or end of input.
//
// Per-command failures are reported and the loop continues; only authentication is fatal.
func (r *Runner) Menu(ctx context.Context, cmd *cli.Command) error {
	saver, err := r.session(ctx)
	if err != nil {
		return err
	}

	for {
		r.painter.ClearScreen(r.output)
		r.writePlain("%s", r.painter.Screen())

		line, err := r.prompt("> ")
		if errors.Is(err, io.EOF) {
			return r.goodbye()
		}
		if err != nil {
			return err
		}

		state, ok := parseChoice(line)
		if !ok {
			r.writePlain("%s\n", r.painter.Failure("Unknown command, please try again"))
		}

		switch state {
		case stateExit:
			return r.goodbye()
		case stateSaveAll:
			r.writePlain("Saving all playlists...\n")
			err = r.saveAll(ctx, saver)
		case stateSaveOne:
			var done bool
			done, err = r.saveOne(ctx, saver)
			if done {
				return r.goodbye()
			}
		case stateListIDs:
			err = r.saveIDs(ctx, saver)
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if shared.IsFatal(err) {
				return err
			}
			r.logger.Debug("menu command failed", "error", err)
			r.writePlain("%s", r.describe(err))
		}

		if _, err := r.prompt("\nPress Enter to continue..."); errors.Is(err, io.EOF) {
			return r.goodbye()
		}
	}
}

// saveOne asks for a playlist id (or "list") and saves it. It reports true when input ended.
func (r *Runner) saveOne(ctx context.Context, saver *tasks.Saver) (bool, error) {
	r.writePlain("Enter Playlist ID (or enter 'list' to get your playlist IDs)\n")
	id, err := r.prompt("> ")
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if strings.EqualFold(id, "list") {
		return false, r.saveIDs(ctx, saver)
	}
	return false, r.savePlaylist(ctx, saver, id)
}

func (r *Runner) goodbye() error {
	return r.writePlain("Goodbye!\n")
}
