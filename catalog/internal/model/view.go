package model

type BookStatus string

const (
	StatusAvailable BookStatus = "Available"
	StatusBorrowed  BookStatus = "Borrowed"
)

const NoResultsHeader = "No Results Found!"

type BookCard struct {
	ID     int
	Title  string
	Author string
	Cover  string
	Status BookStatus
}

type LibraryView struct {
	Cards []BookCard
}

type SearchView struct {
	Query  string
	Header string
	Cards  []BookCard
}

type DetailView struct {
	Book         Book
	ShowControls bool
	Borrowed     bool
	Favorited    bool
}

type BorrowedView struct {
	Current  []BorrowedBook
	Previous []BorrowedBook
}

func (v BorrowedView) Empty() bool {
	return len(v.Current) == 0 && len(v.Previous) == 0
}

type FavoritesView struct {
	Books []FavoriteBook
}

type BannerKind string

const (
	BannerInfo    BannerKind = "info"
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is a transient message shown after an action.
type Banner struct {
	Kind BannerKind
	Text string
}

func Success(text string) Banner {
	return Banner{Kind: BannerSuccess, Text: text}
}

func Info(text string) Banner {
	return Banner{Kind: BannerInfo, Text: text}
}

type BorrowView struct {
	BookID   int
	Borrowed bool
	Banner   Banner
}

type FavoriteView struct {
	BookID    int
	Favorited bool
	Banner    Banner
}

// Page is where a successful login sends the user.
type Page string

const (
	PageUser  Page = "user"
	PageAdmin Page = "admin"
)

type LoginView struct {
	Email    string
	Redirect Page
	Banner   Banner
}

type ResetTicketView struct {
	Email  string
	UID    string
	Token  string
	Banner Banner
}

type IDHintView struct {
	IDs []string
}

type EditView struct {
	Book       Book
	Categories []Category
}
