package teamupdates

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Amit-Sucher/team-updates/composer"
	"github.com/Amit-Sucher/team-updates/views"
)

// handleAdmin serves the admin page: the sign-in form when no session is
// present, the composer form otherwise.
func (a *App) handleAdmin(c echo.Context) error {
	sess := CurrentSession(c)
	if sess == nil {
		return Render(c, views.SignIn(a.site(), "", CsrfToken(c)))
	}
	var form composer.Form
	form.BeginEditing()
	return Render(c, views.Composer(a.site(), form, sess.AuthorName, CsrfToken(c)))
}

// handleAdminLogin verifies submitted credentials and establishes the
// session cookie. Failed attempts count toward the per-IP limiter.
func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.signInLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many sign-in attempts. Try again later.")
	}

	var form composer.Form
	if err := form.SubmitCredentials(); err != nil {
		return err
	}

	sess, err := a.SignIn(c.Request().Context(), c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			a.signInLimiter.Record(c.RealIP())
			_ = form.AuthFailed()
			return Render(c, views.SignIn(a.site(), form.ErrMessage, CsrfToken(c)))
		}
		return err
	}

	_ = form.AuthSucceeded()
	if err := setSession(c, sess); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminSave creates an update from the composer form. On failure the
// form re-renders with every entered value preserved; on success the user
// is sent to the listing.
func (a *App) handleAdminSave(c echo.Context) error {
	sess := CurrentSession(c)
	if sess == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	form := composer.Form{
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		ImageURL: c.FormValue("imageUrl"),
	}
	form.BeginEditing()
	if err := form.Submit(); err != nil {
		return err
	}

	in := UpdateInput{Title: form.Title, Content: form.Content}
	if form.ImageURL != "" {
		in.ImageURL = &form.ImageURL
	}

	_, err := a.Repo.CreateUpdate(c.Request().Context(), sess, in)
	if err != nil {
		var ve *ValidationError
		msg := "Failed to create update. Please try again."
		if errors.As(err, &ve) {
			msg = ve.Error()
		} else {
			c.Logger().Errorf("save update: %v", err)
		}
		_ = form.SubmitFailed(msg)
		return Render(c, views.Composer(a.site(), form, sess.AuthorName, CsrfToken(c)))
	}

	_ = form.SubmitSucceeded()
	return c.Redirect(http.StatusSeeOther, "/")
}
