package app

import (
	"strings"
	"time"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

type rootFlags struct {
	baseURL        string
	authMode       string
	coverMode      string
	passwordPolicy string
	logLevel       string
	sessionPath    string
	timeout        time.Duration
}

func (f rootFlags) options(cmd *cobra.Command) ([]config.Option, error) {
	ops := []config.Option{
		config.WithBaseURL(f.baseURL),
		config.WithAuthMode(config.AuthMode(f.authMode)),
		config.WithCoverMode(config.CoverMode(f.coverMode)),
		config.WithPasswordPolicy(f.passwordPolicy),
		config.WithTimeout(f.timeout),
	}
	if f.logLevel != "" {
		lvl, err := zapcore.ParseLevel(f.logLevel)
		if err != nil {
			return nil, errors.Wrap(err, "log level")
		}
		ops = append(ops, config.WithLogLevel(lvl))
	}
	// an explicit empty path keeps the session in memory
	if cmd.Flags().Changed("session") {
		ops = append(ops, config.WithSessionPath(f.sessionPath))
	}
	return ops, nil
}

func (a *App) rootCommand() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Browse and manage the Ubrary library catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.ready() {
				return nil
			}
			ops, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return a.init(cmd.Context(), config.NewConfig(ops...))
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.flush(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.baseURL, "base-url", "", "backend API base URL (CATALOG_API_BASE_URL)")
	pf.StringVar(&flags.authMode, "auth-mode", "", "token or session (CATALOG_AUTH_MODE)")
	pf.StringVar(&flags.coverMode, "cover-mode", "", "base64 or media (CATALOG_COVER_MODE)")
	pf.StringVar(&flags.passwordPolicy, "password-policy", "", "strict or legacy (CATALOG_PASSWORD_POLICY)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	pf.StringVar(&flags.sessionPath, "session", "", "sqlite file for a remembered session, empty for none (CATALOG_SESSION_PATH)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "HTTP timeout (CATALOG_HTTP_TIMEOUT)")

	root.AddCommand(
		a.booksCommand(),
		a.searchCommand(),
		a.bookCommand(),
		a.borrowCommand(),
		a.returnCommand(),
		a.borrowedCommand(),
		a.favoriteCommand(),
		a.unfavoriteCommand(),
		a.favoritesCommand(),
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.forgotPasswordCommand(),
		a.resetPasswordCommand(),
		a.adminCommand(),
		a.configCommand(),
	)
	if !a.interactive {
		root.AddCommand(a.shellCommand())
	}
	return root
}

func (a *App) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			config.PrintConfig(a.cfg)
		},
	}
}

func (a *App) booksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the available books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.h.Library(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Library(v)
			return nil
		},
	}
}

func (a *App) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query...]",
		Short: "Search books by title, author or category",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.h.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.out.Search(v)
			return nil
		},
	}
}

func (a *App) bookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "book <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.h.BookDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.out.Detail(v)
			return nil
		},
	}
}

func (a *App) borrowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <id>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := form.ParseBookID(args[0])
			if err != nil {
				return err
			}
			v, err := a.h.Borrow(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.out.Borrow(v)
			return nil
		},
	}
}

func (a *App) returnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := form.ParseBookID(args[0])
			if err != nil {
				return err
			}
			v, err := a.h.ReturnBook(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.out.Borrowed(v)
			return nil
		},
	}
}

func (a *App) borrowedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "borrowed",
		Short: "List current and previous borrows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.h.Borrowed(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Borrowed(v)
			return nil
		},
	}
}

func (a *App) favoriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Add a book to the favorites, or remove it if already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := form.ParseBookID(args[0])
			if err != nil {
				return err
			}
			v, err := a.h.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.out.Favorite(v)
			return nil
		},
	}
}

func (a *App) unfavoriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unfavorite <id>",
		Short: "Remove a book from the favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := form.ParseBookID(args[0])
			if err != nil {
				return err
			}
			v, err := a.h.RemoveFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.out.Favorites(v)
			return nil
		},
	}
}

func (a *App) favoritesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.h.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Favorites(v)
			return nil
		},
	}
}
