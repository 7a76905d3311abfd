package handlers

import (
	"html/template"
	"net/http"
	"slices"
)

// Login error messages shown by the demo store
const (
	errUsernameRequired = "Epic sadface: Username is required"
	errPasswordRequired = "Epic sadface: Password is required"
	errNoMatch          = "Epic sadface: Username and password do not match any user in this service"
	errLockedOut        = "Epic sadface: Sorry, this user has been locked out."
)

type loginPage struct {
	Username string
	Error    string
}

// LoginHandler serves the login form and signs users in
type LoginHandler struct {
	template *template.Template
	opts     StoreOptions
}

// NewLoginHandler creates a new LoginHandler
func NewLoginHandler(opts StoreOptions) (*LoginHandler, error) {
	tmpl, err := parseTemplate("login.html")
	if err != nil {
		return nil, err
	}

	return &LoginHandler{
		template: tmpl,
		opts:     opts,
	}, nil
}

// ServeHTTP handles GET / and the POST of the login form
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, loginPage{})
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	username := r.PostForm.Get("user-name")
	password := r.PostForm.Get("password")

	if msg := h.check(username, password); msg != "" {
		h.render(w, loginPage{Username: username, Error: msg})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookie,
		Value: username,
		Path:  "/",
	})
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

// check returns the error message for a failed login, or "" on success
func (h *LoginHandler) check(username, password string) string {
	switch {
	case username == "":
		return errUsernameRequired
	case password == "":
		return errPasswordRequired
	case password != h.opts.Password:
		return errNoMatch
	case slices.Contains(h.opts.LockedOutUsers, username):
		return errLockedOut
	case !slices.Contains(h.opts.Users, username):
		return errNoMatch
	}
	return ""
}

func (h *LoginHandler) render(w http.ResponseWriter, page loginPage) {
	if err := h.template.Execute(w, page); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// LogoutHandler clears the session and cart
type LogoutHandler struct{}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{sessionCookie, cartCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Path: "/", MaxAge: -1})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
