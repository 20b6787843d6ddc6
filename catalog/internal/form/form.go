// Package form holds the client-side checks run on user input before any
// request is made. Every failure is an *Error carrying the message shown
// to the user.
package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/pkg/validate"
	"github.com/pkg/errors"
)

type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(field, msg string) error {
	return &Error{Field: field, Message: msg}
}

// PasswordPolicy selects the registration password rules.
type PasswordPolicy string

const (
	// PolicyStrict wants 8 to 12 characters with an upper case letter, a
	// lower case letter, a digit and a special character.
	PolicyStrict PasswordPolicy = "strict"
	// PolicyLegacy only wants more than 7 characters.
	PolicyLegacy PasswordPolicy = "legacy"
)

func ParsePasswordPolicy(s string) (PasswordPolicy, error) {
	switch p := PasswordPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyStrict, PolicyLegacy:
		return p, nil
	case "":
		return PolicyStrict, nil
	default:
		return "", errors.Errorf("unknown password policy %q", s)
	}
}

type rule struct {
	field string
	value interface{}
	tag   string
	msg   string
}

type Validator struct {
	cv     *validate.CustomValidator
	policy PasswordPolicy
}

func New(cv *validate.CustomValidator, policy PasswordPolicy) *Validator {
	if policy == "" {
		policy = PolicyStrict
	}
	return &Validator{cv: cv, policy: policy}
}

// check stops at the first failing rule.
func (v *Validator) check(rules ...rule) error {
	for _, r := range rules {
		if err := v.cv.Var(r.value, r.tag); err != nil {
			return fail(r.field, r.msg)
		}
	}
	return nil
}

type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	AcceptTerms     bool
}

// Registration validates a signup form and returns the request to send.
func (v *Validator) Registration(in Registration) (model.RegisterRequest, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = string(model.PageUser)
	}

	// the raw username is checked for edge spaces, the trimmed one for the rest
	err := v.check(
		rule{"username", username, "alphaspace", "Username can only contain letters and spaces"},
		rule{"username", username, "min=3,max=30", "Username must be between 3 and 30 characters"},
		rule{"username", in.Username, "nodoublespace", "Username cannot have double spaces or leading/trailing spaces"},
		rule{"email", email, "required", "Please fill in all fields"},
		rule{"password", in.Password, "required", "Please fill in all fields"},
		rule{"confirm_password", in.ConfirmPassword, "required", "Please fill in all fields"},
		rule{"email", email, "emailshape", "Please enter a valid email address"},
	)
	if err != nil {
		return model.RegisterRequest{}, err
	}
	if err := v.check(v.passwordRules(in.Password)...); err != nil {
		return model.RegisterRequest{}, err
	}
	if in.Password != in.ConfirmPassword {
		return model.RegisterRequest{}, fail("confirm_password", "Passwords do not match")
	}
	if !in.AcceptTerms {
		return model.RegisterRequest{}, fail("terms", "You must accept the terms and conditions")
	}
	if err := v.check(rule{"role", role, "oneof=user admin", "Please choose a role: user or admin"}); err != nil {
		return model.RegisterRequest{}, err
	}

	return model.RegisterRequest{
		Email:    email,
		Password: in.Password,
		IsAdmin:  role == string(model.PageAdmin),
	}, nil
}

func (v *Validator) passwordRules(password string) []rule {
	if v.policy == PolicyLegacy {
		return []rule{
			{"password", password, "gt=7", "Password must be longer than 7 characters"},
		}
	}
	return []rule{
		{"password", password, "min=8,max=12", "Password must be between 8 and 12 characters"},
		{"password", password, "hasupper", "Password must contain at least one uppercase letter"},
		{"password", password, "haslower", "Password must contain at least one lowercase letter"},
		{"password", password, "hasdigit", "Password must contain at least one number"},
		{"password", password, "hasspecial", "Password must contain at least one special character"},
	}
}

func (v *Validator) Login(email, password string) (model.LoginRequest, error) {
	email = normalizeEmail(email)
	err := v.check(
		rule{"email", email, "required", "Please fill in all required fields"},
		rule{"password", password, "required", "Please fill in all required fields"},
		rule{"email", email, "emailshape", "Please enter a valid email address"},
	)
	if err != nil {
		return model.LoginRequest{}, err
	}
	return model.LoginRequest{Email: email, Password: password}, nil
}

// ForgotPassword returns the normalized email.
func (v *Validator) ForgotPassword(email string) (string, error) {
	email = normalizeEmail(email)
	err := v.check(
		rule{"email", email, "required", "Please enter your email address"},
		rule{"email", email, "emailshape", "Please enter a valid email address"},
	)
	return email, err
}

type PasswordReset struct {
	UID             string
	Token           string
	Password        string
	ConfirmPassword string
}

func (v *Validator) PasswordReset(in PasswordReset) (model.PasswordResetConfirm, error) {
	uid, token := strings.TrimSpace(in.UID), strings.TrimSpace(in.Token)
	err := v.check(
		rule{"uid", uid, "required", "Invalid reset link. Please request a new password reset."},
		rule{"token", token, "required", "Invalid reset link. Please request a new password reset."},
		rule{"password", in.Password, "required", "Please fill in all fields"},
		rule{"confirm_password", in.ConfirmPassword, "required", "Please fill in all fields"},
		rule{"password", in.Password, "gt=6", "Password must be longer than 6 characters"},
	)
	if err != nil {
		return model.PasswordResetConfirm{}, err
	}
	if in.Password != in.ConfirmPassword {
		return model.PasswordResetConfirm{}, fail("confirm_password", "Passwords do not match")
	}
	return model.PasswordResetConfirm{UID: uid, Token: token, NewPassword: in.Password}, nil
}

// Book is the admin add/edit form. Category is an id or a name; the page
// resolves it against the backend's categories.
type Book struct {
	Title         string
	Author        string
	Category      string
	PublishedDate string
	Description   string
	CoverName     string
	Cover         []byte
}

func (b Book) trimmed() Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Category = strings.TrimSpace(b.Category)
	b.PublishedDate = strings.TrimSpace(b.PublishedDate)
	b.Description = strings.TrimSpace(b.Description)
	return b
}

// NewBook validates the add form: every field including the cover is required.
func (v *Validator) NewBook(in Book) (Book, error) {
	in = in.trimmed()
	const required = "Please fill in all required fields."
	err := v.check(
		rule{"title", in.Title, "required", required},
		rule{"author", in.Author, "required", required},
		rule{"category", in.Category, "required", required},
		rule{"published_date", in.PublishedDate, "required", required},
		rule{"description", in.Description, "required", required},
		rule{"cover", len(in.Cover), "gt=0", required},
	)
	if err != nil {
		return Book{}, err
	}
	return in, v.bookFormat(in)
}

// EditBook validates the edit form: title, author and category are required.
func (v *Validator) EditBook(in Book) (Book, error) {
	in = in.trimmed()
	err := v.check(
		rule{"title", in.Title, "required", "Please enter a title"},
		rule{"author", in.Author, "required", "Please enter an author"},
		rule{"category", in.Category, "required", "Please select a category"},
	)
	if err != nil {
		return Book{}, err
	}
	return in, v.bookFormat(in)
}

func (v *Validator) bookFormat(in Book) error {
	rules := []rule{
		{"author", in.Author, "alphaspace", "Author name should only contain letters and spaces."},
		{"title", in.Title, "max=100", "Title must not exceed 100 characters."},
	}
	if in.PublishedDate != "" {
		rules = append(rules,
			rule{"published_date", in.PublishedDate, "dateonly", "Published Date must be a date in YYYY-MM-DD format."},
			rule{"published_date", in.PublishedDate, "notfuture", "Published Date cannot be in the future."},
		)
	}
	return v.check(rules...)
}

var bookCodeRe = regexp.MustCompile(`(?i)^BK(\d{1,3})$`)

// ParseBookCode turns a delete-form code such as "BK007" into the numeric id.
func ParseBookCode(code string) (int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, fail("book_id", "Please enter a book ID!")
	}
	m := bookCodeRe.FindStringSubmatch(code)
	if m == nil {
		return 0, fail("book_id", "Invalid ID format! Use BK followed by 1-3 digits (e.g. BK001).")
	}
	id, _ := strconv.Atoi(m[1]) //nolint:errcheck
	return id, nil
}

// FormatBookCode is the display form of a book id, e.g. BK007.
func FormatBookCode(id int) string {
	return fmt.Sprintf("BK%03d", id)
}

// ParseBookID parses a book id taken from a page argument.
func ParseBookID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fail("id", "Please enter a valid book ID")
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
