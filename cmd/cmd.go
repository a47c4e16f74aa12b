// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in, log out, and inspect the current session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Full name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session and token expiry",
				Action: r.AuthStatus,
			},
			{
				Name:    "profile",
				Aliases: []string{"whoami"},
				Usage:   "Fetch the authenticated user's profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthProfile,
			},
		},
	}
}

// booksCommand handles catalog operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"b"},
		Usage:   "Browse and download archive books",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"search"},
				Usage:   "List catalog books with client-side filtering",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Substring match on title, author, description",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Filter by category name or ID",
					},
					&cli.StringFlag{
						Name:  "difficulty",
						Usage: "Filter by difficulty (Beginner, Intermediate, Advanced)",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Filter by language",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: table, json, csv, markdown",
						Value: "table",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write formatted output to a file",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "List from the local cache without calling the backend",
					},
				},
				Action: r.BooksList,
			},
			{
				Name:  "show",
				Usage: "Show a single book",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BooksShow,
			},
			{
				Name:  "categories",
				Usage: "List book categories",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BooksCategories,
			},
			{
				Name:  "download",
				Usage: "Download a book's PDF",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory",
					},
				},
				Action: r.BooksDownload,
			},
			{
				Name:      "bulk-download",
				Usage:     "Download multiple books concurrently",
				ArgsUsage: "<id> [<id>...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent downloads",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
					},
				},
				Action: r.BooksBulkDownload,
			},
			{
				Name:   "history",
				Usage:  "Show local download history",
				Action: r.BooksHistory,
			},
		},
	}
}

// favoritesCommand handles the favorite relation
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "List and toggle favorite books",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your favorite books",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "toggle",
				Usage: "Add or remove a book from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.FavoritesToggle,
			},
		},
	}
}

// adminCommand handles catalog administration, gated on an elevated role
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Manage book records (requires ADMIN or SUPERADMIN)",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Upload a new book record",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "author", Required: true},
					&cli.StringFlag{Name: "category", Usage: "Category ID", Required: true},
					&cli.StringFlag{Name: "difficulty", Value: "Beginner"},
					&cli.StringFlag{Name: "language", Value: "English"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "pdf", Usage: "Path to the PDF file", Required: true},
					&cli.StringFlag{Name: "cover", Usage: "Path to the cover image"},
				},
				Action: r.AdminAddBook,
			},
			{
				Name:  "edit",
				Usage: "Update fields of an existing book record",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "author"},
					&cli.StringFlag{Name: "category", Usage: "Category ID"},
					&cli.StringFlag{Name: "difficulty"},
					&cli.StringFlag{Name: "language"},
					&cli.StringFlag{Name: "description"},
				},
				Action: r.AdminEditBook,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Delete a book record",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.AdminRemoveBook,
			},
			{
				Name:  "category",
				Usage: "Manage categories",
				Commands: []*cli.Command{
					{
						Name: "add",
						Arguments: []cli.Argument{
							&cli.StringArg{
								Name: "name",
							},
						},
						Usage:  "Create a category",
						Action: r.AdminAddCategory,
					},
				},
			},
		},
	}
}

// setupCommand initializes local configuration and the cache database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and initialize the local cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand launches the interactive catalog browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the catalog interactively",
		Action: r.TUI,
	}
}
