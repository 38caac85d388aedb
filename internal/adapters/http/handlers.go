package httpadapter

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"svw.info/cardle/internal/config"
	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/filter"
	"svw.info/cardle/internal/observability"
	"svw.info/cardle/internal/platform/logger"
	"svw.info/cardle/internal/progress"
	"svw.info/cardle/internal/selector"
	"svw.info/cardle/internal/share"
	"svw.info/cardle/internal/usecase"
)

// PreferenceStore is the part of config.Preferences the API edits.
type PreferenceStore interface {
	Values() config.PreferenceValues
	SetDark(bool) error
	SetGerman(bool) error
}

type Handler struct {
	UC      *usecase.Service
	Prefs   PreferenceStore
	Metrics *observability.Metrics
	Log     *logger.Logger
	// Now is the clock used to resolve "today".
	Now func() time.Time
	// ViewerFallback is where invalid share links are redirected.
	ViewerFallback string
}

func New(uc *usecase.Service, prefs PreferenceStore, m *observability.Metrics, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{UC: uc, Prefs: prefs, Metrics: m, Log: log, Now: time.Now, ViewerFallback: "/"}
}

// Router builds the gin engine with all middleware and routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.Log), Metrics(h.Metrics))
	h.Register(r)
	return r
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/cards", h.handleCards)
	api.GET("/view", h.handleView)
	api.GET("/preferences", h.handleGetPreferences)
	api.PUT("/preferences", h.handlePutPreferences)
	api.GET("/games", h.handleGames)

	g := api.Group("/games/:mode", h.resolveMode)
	g.GET("/days", h.handleDays)
	g.GET("/find-day", h.handleFindDay)

	d := g.Group("/days/:day", h.resolveDay)
	d.GET("", h.handleBoard)
	d.DELETE("", h.handleReset)
	d.POST("/guesses", h.handleGuess)
	d.GET("/filters", h.handleFilters)
	d.POST("/filters", h.handleToggleFilter)
	d.DELETE("/filters", h.handleClearFilters)
	d.GET("/search", h.handleSearch)
	d.GET("/share", h.handleShare)
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

// fail maps service errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownCard):
		respondError(c, http.StatusNotFound, "unknown_card", err)
	case errors.Is(err, selector.ErrNoDay):
		respondError(c, http.StatusNotFound, "no_day", err)
	case errors.Is(err, domain.ErrCatalogNotReady), errors.Is(err, selector.ErrEmptyCatalog):
		respondError(c, http.StatusServiceUnavailable, "catalog_not_ready", err)
	case errors.Is(err, usecase.ErrFilterLocked):
		respondError(c, http.StatusConflict, "filter_locked", err)
	case errors.Is(err, usecase.ErrNothingToShare):
		respondError(c, http.StatusConflict, "nothing_to_share", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func (h *Handler) resolveMode(c *gin.Context) {
	m, err := progress.ParseMode(c.Param("mode"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_mode", err)
		return
	}
	c.Set("mode", m)
	c.Next()
}

func (h *Handler) parseDay(s string) (domain.Day, error) {
	if s == "" || strings.EqualFold(s, "today") {
		return domain.DayOf(h.Now()), nil
	}
	return domain.ParseDay(s)
}

func (h *Handler) resolveDay(c *gin.Context) {
	d, err := h.parseDay(c.Param("day"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_day", err)
		return
	}
	c.Set("day", d)
	c.Next()
}

func modeOf(c *gin.Context) progress.Mode { return c.MustGet("mode").(progress.Mode) }
func dayOf(c *gin.Context) domain.Day     { return c.MustGet("day").(domain.Day) }

func (h *Handler) handleCards(c *gin.Context) {
	cards, err := h.UC.Cards()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) handleGames(c *gin.Context) {
	modes, err := h.UC.Stored(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modes": modes})
}

func (h *Handler) handleDays(c *gin.Context) {
	days, err := h.UC.Days(modeOf(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *Handler) handleFindDay(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		respondError(c, http.StatusBadRequest, "missing_code", errors.New("code is required"))
		return
	}
	from, err := h.parseDay(c.Query("from"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_day", err)
		return
	}
	d, err := h.UC.FindDay(modeOf(c), code, from)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": d})
}

func (h *Handler) handleBoard(c *gin.Context) {
	b, err := h.UC.Board(modeOf(c), dayOf(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) handleReset(c *gin.Context) {
	if err := h.UC.Reset(c.Request.Context(), modeOf(c), dayOf(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type guessReq struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) handleGuess(c *gin.Context) {
	var req guessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.UC.Guess(c.Request.Context(), modeOf(c), dayOf(c), req.Code)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) handleFilters(c *gin.Context) {
	avail, err := h.UC.Available(modeOf(c), dayOf(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":    h.UC.Filters(modeOf(c), dayOf(c)),
		"available": avail,
	})
}

func (h *Handler) handleToggleFilter(c *gin.Context) {
	var cr filter.Criterion
	if err := c.ShouldBindJSON(&cr); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := cr.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "bad_filter", err)
		return
	}
	on, err := h.UC.ToggleFilter(modeOf(c), dayOf(c), cr)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": on, "filters": h.UC.Filters(modeOf(c), dayOf(c))})
}

func (h *Handler) handleClearFilters(c *gin.Context) {
	h.UC.ClearFilters(modeOf(c), dayOf(c))
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleSearch(c *gin.Context) {
	cards, err := h.UC.Search(modeOf(c), dayOf(c), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) handleShare(c *gin.Context) {
	link, err := h.UC.ShareLink(modeOf(c), dayOf(c))
	if err != nil {
		fail(c, err)
		return
	}
	text, err := h.UC.ShareText(modeOf(c), dayOf(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link, "text": text})
}

// handleView replays a shared game. Broken links send the browser back to
// the normal game instead of failing.
func (h *Handler) handleView(c *gin.Context) {
	link := c.Query("link")
	if link == "" {
		link = c.Request.URL.RawQuery
	}
	r, err := h.UC.View(link)
	if errors.Is(err, share.ErrInvalidLink) {
		c.Redirect(http.StatusFound, h.ViewerFallback)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) handleGetPreferences(c *gin.Context) {
	if h.Prefs == nil {
		c.JSON(http.StatusOK, config.PreferenceValues{})
		return
	}
	c.JSON(http.StatusOK, h.Prefs.Values())
}

type prefsReq struct {
	Dark   *bool `json:"dark"`
	German *bool `json:"german"`
}

func (h *Handler) handlePutPreferences(c *gin.Context) {
	if h.Prefs == nil {
		respondError(c, http.StatusNotImplemented, "not_configured", errors.New("preferences not configured"))
		return
	}
	var req prefsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Dark != nil {
		if err := h.Prefs.SetDark(*req.Dark); err != nil {
			fail(c, err)
			return
		}
	}
	if req.German != nil {
		if err := h.Prefs.SetGerman(*req.German); err != nil {
			fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, h.Prefs.Values())
}
