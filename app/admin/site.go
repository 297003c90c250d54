package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"github.com/mytheresa/content-portal/app/auth"
	"github.com/mytheresa/content-portal/app/config"
	"github.com/mytheresa/content-portal/app/logging"
	"github.com/mytheresa/content-portal/app/media"
	"github.com/mytheresa/content-portal/models"
)

// Site is the admin console: the registered models and the echo instance serving them.
type Site struct {
	db     *gorm.DB
	store  media.Store
	cfg    config.AdminConfig
	log    *log.Logger
	models []Model
	byName map[string]Model
}

func NewSite(db *gorm.DB, store media.Store, cfg config.AdminConfig, l *log.Logger) *Site {
	return &Site{db: db, store: store, cfg: cfg, log: l, byName: map[string]Model{}}
}

// Register adds m to the console. Registering a name twice panics.
func (s *Site) Register(m Model) {
	name := m.Info().Name
	if _, ok := s.byName[name]; ok {
		panic(fmt.Sprintf("admin: model %s is already registered", name))
	}
	s.models = append(s.models, m)
	s.byName[name] = m
}

// Echo returns the console's handler. Routes live under /admin/ and require a staff user.
func (s *Site) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = s.log
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(err, c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			e.Logger.Error(err)
		}
	}

	g := e.Group("/admin", logging.LogHandlerFunc, auth.RequireStaff)
	g.GET("/", s.handleIndex)
	g.GET("/template/category-choices/", s.handleCategoryChoices)
	g.GET("/:model/", s.handleChangelist)
	g.GET("/:model/add/", s.handleAddForm)
	g.POST("/:model/add/", s.handleAdd)
	g.GET("/:model/:id/change/", s.handleChangeForm)
	g.POST("/:model/:id/change/", s.handleChange)
	g.POST("/:model/:id/delete/", s.handleDelete)
	return e
}

func (s *Site) handleIndex(c echo.Context) error {
	idx := Index{
		SiteHeader: s.cfg.SiteHeader,
		SiteTitle:  s.cfg.SiteTitle,
		IndexTitle: s.cfg.IndexTitle,
		Models:     make([]ModelInfo, 0, len(s.models)),
	}
	for _, m := range s.models {
		idx.Models = append(idx.Models, m.Info())
	}
	return c.JSON(http.StatusOK, idx)
}

func (s *Site) handleCategoryChoices(c echo.Context) error {
	choices, err := categoryChoices(c.Request().Context(), s.db)
	if err != nil {
		return unexpected(err)
	}
	return c.JSON(http.StatusOK, choices)
}

func (s *Site) handleChangelist(c echo.Context) error {
	m, err := s.model(c)
	if err != nil {
		return err
	}
	cl, err := m.changelist(c.Request().Context(), s, c.QueryParams())
	if err != nil {
		return unexpected(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (s *Site) handleAddForm(c echo.Context) error {
	return s.renderForm(c, 0)
}

func (s *Site) handleChangeForm(c echo.Context) error {
	id, err := objectID(c)
	if err != nil {
		return err
	}
	return s.renderForm(c, id)
}

func (s *Site) renderForm(c echo.Context, id uint) error {
	m, err := s.model(c)
	if err != nil {
		return err
	}
	form, err := m.changeForm(c.Request().Context(), s, id)
	if errors.Is(err, models.ErrNotFound) {
		return notFound(m, id)
	}
	if err != nil {
		return unexpected(err)
	}
	return c.JSON(http.StatusOK, form)
}

func (s *Site) handleAdd(c echo.Context) error {
	return s.submit(c, 0)
}

func (s *Site) handleChange(c echo.Context) error {
	id, err := objectID(c)
	if err != nil {
		return err
	}
	return s.submit(c, id)
}

// submit saves a posted change form. "_saveasnew" on a change form stores a new object
// when the model allows it.
func (s *Site) submit(c echo.Context, id uint) error {
	m, err := s.model(c)
	if err != nil {
		return err
	}
	f, err := readForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form data").SetInternal(err)
	}
	if id != 0 && f.Raw("_saveasnew") != "" {
		if !m.saveAs() {
			return echo.NewHTTPError(http.StatusBadRequest, "save as new is not enabled for "+m.Info().VerbosePlural)
		}
		id = 0
	}

	saved, errs, err := m.save(c.Request().Context(), s, id, f)
	if errors.Is(err, models.ErrNotFound) {
		return notFound(m, id)
	}
	if err != nil {
		return unexpected(err)
	}
	if errs != nil {
		return c.JSON(http.StatusBadRequest, Invalid{Errors: errs})
	}

	info := m.Info()
	status, verb := http.StatusOK, "changed"
	if id == 0 {
		status, verb = http.StatusCreated, "added"
	}
	s.log.Infof("admin: %s %d %s by %s", info.Name, saved, verb, username(c))
	return c.JSON(status, Saved{
		ID:      saved,
		Message: fmt.Sprintf("The %s was %s successfully.", info.Verbose, verb),
		URL:     fmt.Sprintf("/admin/%s/%d/change/", info.Name, saved),
	})
}

func (s *Site) handleDelete(c echo.Context) error {
	m, err := s.model(c)
	if err != nil {
		return err
	}
	id, err := objectID(c)
	if err != nil {
		return err
	}

	label, err := m.remove(c.Request().Context(), s, id)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return notFound(m, id)
	case errors.Is(err, models.ErrProtected):
		return echo.NewHTTPError(http.StatusConflict,
			fmt.Sprintf("Cannot delete %s %d: other records still reference it.", m.Info().Verbose, id),
		).SetInternal(err)
	case err != nil:
		return unexpected(err)
	}
	s.log.Infof("admin: %s %d deleted by %s", m.Info().Name, id, username(c))
	return c.JSON(http.StatusOK, Deleted{
		Message: fmt.Sprintf("The %s %q was deleted successfully.", m.Info().Verbose, label),
	})
}

func (s *Site) model(c echo.Context) (Model, error) {
	m, ok := s.byName[c.Param("model")]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown model "+c.Param("model"))
	}
	return m, nil
}

func objectID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return uint(id), nil
}

func readForm(c echo.Context) (*Form, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return NewForm(mf.Value, mf.File), nil
	}
	values, err := c.FormParams()
	if err != nil {
		return nil, err
	}
	return NewForm(values, nil), nil
}

func notFound(m Model, id uint) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s with ID %d doesn't exist.", m.Info().Verbose, id))
}

func unexpected(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, "unexpected error").SetInternal(err)
}

func username(c echo.Context) string {
	if u := auth.UserFromContext(c.Request().Context()); u != nil {
		return u.Username
	}
	return "anonymous"
}
