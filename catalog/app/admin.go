package app

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/view"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func (a *App) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the catalog (admin accounts only)",
	}
	cmd.AddCommand(
		a.addBookCommand(),
		a.editBookCommand(),
		a.deleteBookCommand(),
		a.idsCommand(),
		a.usersCommand(),
		a.categoriesCommand(),
	)
	return cmd
}

func bookFlags(fs *pflag.FlagSet, in *form.Book) {
	fs.StringVar(&in.Title, "title", "", "book title, at most 100 characters")
	fs.StringVar(&in.Author, "author", "", "author name, letters and spaces")
	fs.StringVar(&in.Category, "category", "", "category id or name")
	fs.StringVar(&in.PublishedDate, "published", "", "publication date, YYYY-MM-DD")
	fs.StringVar(&in.Description, "description", "", "description")
}

func (a *App) addBookCommand() *cobra.Command {
	var (
		in    form.Book
		cover string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book with its cover image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cover != "" {
				data, err := os.ReadFile(filepath.Clean(cover))
				if err != nil {
					return errors.Wrap(err, "read cover")
				}
				in.Cover, in.CoverName = data, filepath.Base(cover)
			}
			b, err := a.h.AddBook(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.out.Banner(b)
			return nil
		},
	}
	bookFlags(cmd.Flags(), &in)
	cmd.Flags().StringVar(&cover, "cover", "", "path to the cover image")
	return cmd
}

// editBookCommand shows the book when no field is given; otherwise the given
// fields replace the stored ones and the rest are kept.
func (a *App) editBookCommand() *cobra.Command {
	var (
		in      form.Book
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Show or update a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.h.EditBookLookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if !anyChanged(fs, "title", "author", "category", "published", "description") {
				a.out.Edit(current)
				return nil
			}
			b, err := a.h.EditBook(cmd.Context(), args[0], merge(fs, current.Book, in), replace)
			if err != nil {
				return err
			}
			a.out.Banner(b)
			return nil
		},
	}
	bookFlags(cmd.Flags(), &in)
	cmd.Flags().BoolVar(&replace, "replace", false, "send a full replacement instead of a partial update")
	return cmd
}

func anyChanged(fs *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if fs.Changed(n) {
			return true
		}
	}
	return false
}

func merge(fs *pflag.FlagSet, b model.Book, in form.Book) form.Book {
	out := form.Book{
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.String(),
		Description:   b.Description,
	}
	if ids := b.Categories.IDs(); len(ids) > 0 {
		out.Category = strconv.Itoa(ids[0])
	} else if len(b.Categories) > 0 {
		out.Category = b.Categories[0].Name
	}
	if fs.Changed("title") {
		out.Title = in.Title
	}
	if fs.Changed("author") {
		out.Author = in.Author
	}
	if fs.Changed("category") {
		out.Category = in.Category
	}
	if fs.Changed("published") {
		out.PublishedDate = in.PublishedDate
	}
	if fs.Changed("description") {
		out.Description = in.Description
	}
	return out
}

func (a *App) deleteBookCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <BKnnn>",
		Short: "Delete a book by its BK code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := func(b model.Book) bool {
				return yes || a.confirm(view.ConfirmDelete(b))
			}
			b, err := a.h.DeleteBook(cmd.Context(), args[0], confirm)
			if err != nil {
				return err
			}
			a.out.Banner(b)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) idsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "List the book codes the delete command accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.h.DeleteHint(cmd.Context())
			if err != nil {
				return err
			}
			a.out.IDHint(v)
			return nil
		},
	}
}

func (a *App) usersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.h.Users(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Users(users)
			return nil
		},
	}
}

func (a *App) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List book categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := a.h.AdminCategories(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Categories(categories)
			return nil
		},
	}
}
