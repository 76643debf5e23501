// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, markdown, csv or json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to a file instead of stdout",
		},
	}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "rollback",
				Usage: "Revert the most recent database migration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupRollback,
			},
		},
	}
}

// sessionCommand exposes the token store.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect or change the stored login token",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show whether a token is stored",
				Action: r.SessionShow,
			},
			{
				Name:  "set",
				Usage: "Store a token (the user identifier returned by the login endpoint)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Action: r.SessionSet,
			},
			{
				Name:    "clear",
				Aliases: []string{"logout"},
				Usage:   "Remove the stored token",
				Action:  r.SessionClear,
			},
		},
	}
}

// routesCommand prints the route table.
func routesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "routes",
		Usage:  "List the application's routes",
		Action: r.Routes,
	}
}

// navigateCommand evaluates a single navigation headlessly.
func navigateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "navigate",
		Usage: "Show what the login gate decides for a path",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Navigate,
	}
}

func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show a user's profile (defaults to your own)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  formatFlags(),
		Action: r.Profile,
	}
}

func streamCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stream",
		Usage: "Show recent photos of the users you follow",
		Flags: append(formatFlags(),
			&cli.IntFlag{
				Name:  "amount",
				Usage: "Photos per followed user",
				Value: 10,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Photos to skip per followed user",
			},
		),
		Action: r.Stream,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search users by username",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "pattern"},
		},
		Flags:  formatFlags(),
		Action: r.Search,
	}
}

func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload one or more photos to your profile",
		ArgsUsage: "<file> [file...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent uploads (max 5)",
				Value: 2,
			},
		},
		Action: r.Upload,
	}
}

func relationCommand(name, usage string, action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: action,
	}
}

func followCommand(r *Runner) *cli.Command {
	return relationCommand("follow", "Follow a user", r.Follow)
}

func unfollowCommand(r *Runner) *cli.Command {
	return relationCommand("unfollow", "Stop following a user", r.Unfollow)
}

func banCommand(r *Runner) *cli.Command {
	return relationCommand("ban", "Ban a user from your photos", r.Ban)
}

func unbanCommand(r *Runner) *cli.Command {
	return relationCommand("unban", "Lift a ban", r.Unban)
}

func followingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "following",
		Usage:  "List the users you follow",
		Flags:  formatFlags(),
		Action: r.Following,
	}
}

func bannedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "banned",
		Usage:  "List the users you have banned",
		Flags:  formatFlags(),
		Action: r.Banned,
	}
}

func likeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "Like a photo",
		ArgsUsage: "<owner id> <photo id>",
		Action:    r.Like,
	}
}

func unlikeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "unlike",
		Usage:     "Remove your like from a photo",
		ArgsUsage: "<owner id> <photo id>",
		Action:    r.Unlike,
	}
}

// commentCommand manages comments on a photo.
func commentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "comment",
		Usage: "Add, delete or list photo comments",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Comment on a photo",
				ArgsUsage: "<owner id> <photo id> <text...>",
				Action:    r.CommentAdd,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a comment",
				ArgsUsage: "<owner id> <photo id> <comment id>",
				Action:    r.CommentDelete,
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List the comments on a photo",
				ArgsUsage: "<owner id> <photo id>",
				Flags:     formatFlags(),
				Action:    r.CommentList,
			},
		},
	}
}

func usernameCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "username",
		Usage: "Change your username (1 to 15 letters or digits)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
		},
		Action: r.Username,
	}
}

// photoCommand downloads or deletes photos.
func photoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "photo",
		Usage: "Download or delete photos",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Download a photo",
				ArgsUsage: "<owner id> <photo id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "File to write (default photo-<owner>-<photo>.png)",
					},
				},
				Action: r.PhotoGet,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete one of your photos",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "photo"},
				},
				Action: r.PhotoDelete,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the photo backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:   "liveness",
				Usage:  "Check that the backend is up",
				Action: r.APILiveness,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal UI",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.TUI,
	}
}
