package teamupdates

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// apiUpdate is the wire shape of an update: the entity's fields flat, plus
// the author's display name projected under "author".
type apiUpdate struct {
	Update
	Author apiAuthor `json:"author"`
}

type apiAuthor struct {
	Name string `json:"name"`
}

func toAPI(u Update) apiUpdate {
	return apiUpdate{Update: u, Author: apiAuthor{Name: u.AuthorName}}
}

// handleListUpdates serves GET /api/updates: every update with the author
// name projected, ordered by creation time descending.
func (a *App) handleListUpdates(c echo.Context) error {
	updates, err := a.Repo.ListUpdates(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list updates: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error fetching updates"})
	}
	out := make([]apiUpdate, 0, len(updates))
	for _, u := range updates {
		out = append(out, toAPI(u))
	}
	return c.JSON(http.StatusOK, out)
}

// handleCreateUpdate serves POST /api/updates. The session is resolved here
// and passed explicitly into the repository; an absent session is a 401
// before anything touches the store.
func (a *App) handleCreateUpdate(c echo.Context) error {
	sess := CurrentSession(c)

	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	u, err := a.Repo.CreateUpdate(c.Request().Context(), sess, in)
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.Is(err, ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
		default:
			c.Logger().Errorf("create update: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error creating update"})
		}
	}
	return c.JSON(http.StatusOK, toAPI(u))
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// apiError maps an error escaping an /api/ handler to a status and a
// generic JSON body.
func apiError(err error) (int, echo.Map) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		return he.Code, echo.Map{"error": msg}
	}
	return http.StatusInternalServerError, echo.Map{"error": "Internal server error"}
}
