package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const LoginPath = "/accounts/login/"

// LoginURL returns the login page URL that sends the user back to next afterwards.
func LoginURL(next string) string {
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// SafeNext returns next when it is a path on this site, "/" otherwise.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.HasPrefix(next, "/\\") || strings.ContainsAny(next, "\r\n") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r)
	}
}

// RequireStaff guards the admin console: anonymous requests are sent to the login page
// and signed-in non-staff users get 403.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := UserFromContext(c.Request().Context())
		if user == nil {
			return c.Redirect(http.StatusFound, LoginURL(c.Request().URL.RequestURI()))
		}
		if !user.IsStaff || !user.IsActive {
			return echo.NewHTTPError(http.StatusForbidden, "staff account required")
		}
		return next(c)
	}
}
