// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rootFlags are shared by every command.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a dotenv file with Spotify credentials",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory receiving playlists/ and playlist_ids.csv",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	}
}

// exportCommand saves one playlist.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Save one playlist's tracks to CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID to export",
				Required: true,
			},
		},
		Action: r.Export,
	}
}

// exportAllCommand saves every playlist of the user.
func exportAllCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "export-all",
		Usage:  "Save the tracks of every playlist to CSV",
		Action: r.ExportAll,
	}
}

// idsCommand writes the playlist id listing.
func idsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "ids",
		Usage:  "Write playlist names and ids to CSV",
		Action: r.IDs,
	}
}

// listCommand prints playlists to the terminal.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Print playlist URIs and names",
		Action:  r.List,
	}
}

// initCommand writes a starter config file.
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create a config.toml from the built-in template",
		Action: r.Init,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		exportCommand, exportAllCommand, idsCommand, listCommand, initCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// command builds the root command. Without a subcommand it opens the interactive menu.
func (r *Runner) command() *cli.Command {
	return &cli.Command{
		Name:     "plsaver",
		Usage:    "Save Spotify playlists to CSV files",
		Version:  "1.0.0",
		Flags:    rootFlags(),
		Before:   r.Before,
		Action:   r.Menu,
		Commands: r.register(),
		Writer:   r.output,
	}
}
