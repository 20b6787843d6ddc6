package form

import (
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-catalog/pkg/validate"
	"github.com/stretchr/testify/require"
)

func validRegistration() Registration {
	return Registration{
		Username:        "Jane Austen",
		Email:           "  Jane@Ubrary.io ",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
		Role:            "user",
		AcceptTerms:     true,
	}
}

func requireFormError(t *testing.T, err error, field, msg string) {
	t.Helper()
	require.Error(t, err)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, field, fe.Field)
	require.Equal(t, msg, fe.Message)
}

func TestValidator_Registration(t *testing.T) {
	t.Parallel()
	v := New(validate.NewCustomValidator(), PolicyStrict)

	req, err := v.Registration(validRegistration())
	require.NoError(t, err)
	require.Equal(t, "jane@ubrary.io", req.Email)
	require.False(t, req.IsAdmin)

	tests := []struct {
		name  string
		edit  func(r *Registration)
		field string
		msg   string
	}{
		{
			name:  "short username",
			edit:  func(r *Registration) { r.Username = "ab" },
			field: "username",
			msg:   "Username must be between 3 and 30 characters",
		},
		{
			name:  "double spaces",
			edit:  func(r *Registration) { r.Username = "Jane  Austen" },
			field: "username",
			msg:   "Username cannot have double spaces or leading/trailing spaces",
		},
		{
			name:  "digits in username",
			edit:  func(r *Registration) { r.Username = "Jane5" },
			field: "username",
			msg:   "Username can only contain letters and spaces",
		},
		{
			name:  "bad email",
			edit:  func(r *Registration) { r.Email = "jane@ubrary" },
			field: "email",
			msg:   "Please enter a valid email address",
		},
		{
			name: "no digit",
			edit: func(r *Registration) {
				r.Password, r.ConfirmPassword = "Secret!!", "Secret!!"
			},
			field: "password",
			msg:   "Password must contain at least one number",
		},
		{
			name: "seven characters",
			edit: func(r *Registration) {
				r.Password, r.ConfirmPassword = "Abcdef1", "Abcdef1"
			},
			field: "password",
			msg:   "Password must be between 8 and 12 characters",
		},
		{
			name:  "mismatched confirm",
			edit:  func(r *Registration) { r.ConfirmPassword = "Secret1?" },
			field: "confirm_password",
			msg:   "Passwords do not match",
		},
		{
			name:  "terms unchecked",
			edit:  func(r *Registration) { r.AcceptTerms = false },
			field: "terms",
			msg:   "You must accept the terms and conditions",
		},
		{
			name:  "unknown role",
			edit:  func(r *Registration) { r.Role = "librarian" },
			field: "role",
			msg:   "Please choose a role: user or admin",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validRegistration()
			tt.edit(&in)
			_, err := v.Registration(in)
			requireFormError(t, err, tt.field, tt.msg)
		})
	}
}

func TestValidator_PasswordPolicies(t *testing.T) {
	t.Parallel()
	cv := validate.NewCustomValidator()
	strict := New(cv, PolicyStrict)
	legacy := New(cv, PolicyLegacy)

	in := validRegistration()
	in.Password, in.ConfirmPassword = "Abcdef1", "Abcdef1"

	// seven characters: too short for either registration policy
	_, err := strict.Registration(in)
	require.Error(t, err)
	_, err = legacy.Registration(in)
	requireFormError(t, err, "password", "Password must be longer than 7 characters")

	// the reset form only wants more than six
	_, err = strict.PasswordReset(PasswordReset{UID: "3", Token: "t", Password: "Abcdef1", ConfirmPassword: "Abcdef1"})
	require.NoError(t, err)

	// legacy has no character class rules
	in.Password, in.ConfirmPassword = "abcdefgh", "abcdefgh"
	_, err = legacy.Registration(in)
	require.NoError(t, err)
	_, err = strict.Registration(in)
	requireFormError(t, err, "password", "Password must contain at least one uppercase letter")

	in.Password, in.ConfirmPassword = "Abcdefg1", "Abcdefg1"
	_, err = strict.Registration(in)
	requireFormError(t, err, "password", "Password must contain at least one special character")

	p, err := ParsePasswordPolicy(" Legacy ")
	require.NoError(t, err)
	require.Equal(t, PolicyLegacy, p)
	_, err = ParsePasswordPolicy("lax")
	require.Error(t, err)
}

func TestValidator_PasswordReset(t *testing.T) {
	t.Parallel()
	v := New(validate.NewCustomValidator(), PolicyStrict)

	_, err := v.PasswordReset(PasswordReset{Password: "abcdefg", ConfirmPassword: "abcdefg"})
	requireFormError(t, err, "uid", "Invalid reset link. Please request a new password reset.")

	_, err = v.PasswordReset(PasswordReset{UID: "3", Token: "t", Password: "abcdef", ConfirmPassword: "abcdef"})
	requireFormError(t, err, "password", "Password must be longer than 6 characters")

	_, err = v.PasswordReset(PasswordReset{UID: "3", Token: "t", Password: "abcdefg", ConfirmPassword: "abcdefh"})
	requireFormError(t, err, "confirm_password", "Passwords do not match")

	req, err := v.PasswordReset(PasswordReset{UID: " 3 ", Token: "t", Password: "abcdefg", ConfirmPassword: "abcdefg"})
	require.NoError(t, err)
	require.Equal(t, "3", req.UID)
	require.Equal(t, "abcdefg", req.NewPassword)
}

func TestValidator_LoginAndForgot(t *testing.T) {
	t.Parallel()
	v := New(validate.NewCustomValidator(), PolicyStrict)

	_, err := v.Login("reader@ubrary.io", "")
	requireFormError(t, err, "password", "Please fill in all required fields")
	_, err = v.Login("reader", "x")
	requireFormError(t, err, "email", "Please enter a valid email address")
	req, err := v.Login(" Reader@Ubrary.io", "x")
	require.NoError(t, err)
	require.Equal(t, "reader@ubrary.io", req.Email)

	_, err = v.ForgotPassword("  ")
	requireFormError(t, err, "email", "Please enter your email address")
	email, err := v.ForgotPassword("Reader@Ubrary.io")
	require.NoError(t, err)
	require.Equal(t, "reader@ubrary.io", email)
}

func TestValidator_Book(t *testing.T) {
	t.Parallel()
	v := New(validate.NewCustomValidator(), PolicyStrict)
	tomorrow := time.Now().UTC().AddDate(0, 0, 2).Format(time.DateOnly)
	valid := Book{
		Title:         "Emma",
		Author:        "Jane Austen",
		Category:      "Classics",
		PublishedDate: "1815-12-23",
		Description:   "A novel",
		CoverName:     "emma.jpg",
		Cover:         []byte{1},
	}

	got, err := v.NewBook(valid)
	require.NoError(t, err)
	require.Equal(t, valid, got)

	noCover := valid
	noCover.Cover = nil
	_, err = v.NewBook(noCover)
	requireFormError(t, err, "cover", "Please fill in all required fields.")

	badAuthor := valid
	badAuthor.Author = "J. Austen"
	_, err = v.NewBook(badAuthor)
	requireFormError(t, err, "author", "Author name should only contain letters and spaces.")

	longTitle := valid
	longTitle.Title = strings.Repeat("a", 101)
	_, err = v.NewBook(longTitle)
	requireFormError(t, err, "title", "Title must not exceed 100 characters.")

	future := valid
	future.PublishedDate = tomorrow
	_, err = v.NewBook(future)
	requireFormError(t, err, "published_date", "Published Date cannot be in the future.")

	// the edit form needs less but still checks formats
	edit := Book{Title: " Emma ", Author: "Jane Austen", Category: "2"}
	got, err = v.EditBook(edit)
	require.NoError(t, err)
	require.Equal(t, "Emma", got.Title)

	edit.Category = ""
	_, err = v.EditBook(edit)
	requireFormError(t, err, "category", "Please select a category")

	edit.Category, edit.PublishedDate = "2", tomorrow
	_, err = v.EditBook(edit)
	requireFormError(t, err, "published_date", "Published Date cannot be in the future.")
}

func TestBookCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code    string
		want    int
		wantErr bool
	}{
		{code: "BK001", want: 1},
		{code: "bk42", want: 42},
		{code: " BK999 ", want: 999},
		{code: "BK1000", wantErr: true},
		{code: "BK", wantErr: true},
		{code: "42", wantErr: true},
		{code: "", wantErr: true},
	}
	for _, tt := range tests {
		id, err := ParseBookCode(tt.code)
		if tt.wantErr {
			require.Error(t, err, tt.code)
			continue
		}
		require.NoError(t, err, tt.code)
		require.Equal(t, tt.want, id)
	}
	require.Equal(t, "BK007", FormatBookCode(7))
	require.Equal(t, "BK120", FormatBookCode(120))
}
