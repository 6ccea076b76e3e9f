package httpadapter

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/weather-to-wear/internal/chart"
	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/page"
	"github.com/couchcryptid/weather-to-wear/internal/preference"
	"github.com/couchcryptid/weather-to-wear/internal/session"
)

//go:embed templates/*.html static/*
var assets embed.FS

// SessionCookie carries the visitor's session id.
const SessionCookie = "session_id"

// Routes.
const (
	pathChart       = "/"
	pathHours       = "/hours/"
	pathSearch      = "/search"
	pathWear        = "/weather-to-wear"
	pathWearSearch  = "/weather-to-wear/search"
	pathWearPreview = "/weather-to-wear/preview"
	pathWearSubmit  = "/weather-to-wear/suggestions"
	pathWearScript  = "/static/wear.js"
)

const (
	closeHour          = "close"
	formZipcode        = "zipcode"
	formImage          = "image"
	multipartOverhead  = 1 << 20
	chartTemplateName  = "chart.html"
	wearTemplateName   = "wear.html"
	defaultBannerDelay = 5 * time.Second
)

// PageOptions tune the page handlers.
type PageOptions struct {
	BannerTTL      time.Duration
	MaxUploadBytes int64
	SecureCookies  bool
}

// Pages serves the chart and weather-to-wear pages.
type Pages struct {
	engine   *gin.Engine
	ctrl     *page.Controller
	sessions *session.Store
	prefs    preference.Binder
	opts     PageOptions
	logger   *slog.Logger
}

// NewPages builds the gin engine for the page routes.
func NewPages(ctrl *page.Controller, sessions *session.Store, prefs preference.Binder, opts PageOptions, logger *slog.Logger) *Pages {
	if opts.BannerTTL <= 0 {
		opts.BannerTTL = defaultBannerDelay
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.MaxMultipartMemory = opts.MaxUploadBytes + multipartOverhead
	engine.SetHTMLTemplate(template.Must(template.ParseFS(assets, "templates/*.html")))

	p := &Pages{
		engine:   engine,
		ctrl:     ctrl,
		sessions: sessions,
		prefs:    prefs,
		opts:     opts,
		logger:   logger,
	}
	p.registerRoutes()
	return p
}

func (p *Pages) registerRoutes() {
	p.engine.GET(pathChart, p.handleChart)
	p.engine.GET(pathHours+":index", p.handleHour)
	p.engine.POST(pathSearch, p.handleChartSearch)

	p.engine.GET(pathWear, p.handleWear)
	p.engine.POST(pathWearSearch, p.handleWearSearch)
	p.engine.POST(pathWearPreview, p.limitBody, p.handlePreview)
	p.engine.POST(pathWearSubmit, p.limitBody, p.handleSubmit)

	p.engine.StaticFileFS(pathWearScript, "static/wear.js", http.FS(assets))
}

// ServeHTTP implements http.Handler.
func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.engine.ServeHTTP(w, r)
}

// --- chart page ---

func (p *Pages) handleChart(c *gin.Context) {
	sess := p.session(c)
	err := p.ctrl.Bootstrap(c.Request.Context(), sess, p.bindPrefs(c), page.Chart)
	p.renderChart(c, sess, page.Banner(err), "")
}

// handleHour opens the detail overlay for one bar, or starts closing it when
// the index is "close". The loaded chart is reused; only a visitor without
// loaded weather triggers a fetch.
func (p *Pages) handleHour(c *gin.Context) {
	sess := p.session(c)
	raw := c.Param("index")

	if raw == closeHour {
		sess.CloseHour()
		p.renderChart(c, sess, "", "")
		return
	}

	var banner string
	if len(sess.Weather()) == 0 {
		banner = page.Banner(p.ctrl.Bootstrap(c.Request.Context(), sess, p.bindPrefs(c), page.Chart))
	}
	i, err := strconv.Atoi(raw)
	if err != nil || !sess.OpenHour(i) {
		c.Redirect(http.StatusSeeOther, pathChart)
		return
	}
	p.renderChart(c, sess, banner, "")
}

func (p *Pages) handleChartSearch(c *gin.Context) {
	sess := p.session(c)
	input := c.PostForm(formZipcode)
	err := p.ctrl.Search(c.Request.Context(), sess, p.bindPrefs(c), page.Chart, input)
	p.renderChart(c, sess, page.Banner(err), invalidInput(err, input))
}

func (p *Pages) renderChart(c *gin.Context, sess *session.Session, banner, input string) {
	view := p.ctrl.ChartView(sess, banner)
	if input != "" {
		view.Input = input
	}

	svg, err := view.Chart.SVG(pathHours)
	if err != nil {
		p.logger.Error("render chart failed", "session", sess.ID, "error", err)
		view.Banner = domain.MsgWeatherFailed
	}

	c.HTML(http.StatusOK, chartTemplateName, chartPage{
		ChartView:     view,
		SVG:           svg,
		OverlayClass:  view.Overlay.String(),
		CloseDelayMs:  chart.OverlayCloseDelay.Milliseconds(),
		BannerDelayMs: p.opts.BannerTTL.Milliseconds(),
	})
}

// --- weather-to-wear page ---

func (p *Pages) handleWear(c *gin.Context) {
	sess := p.session(c)
	err := p.ctrl.Bootstrap(c.Request.Context(), sess, p.bindPrefs(c), page.Wear)
	p.renderWear(c, sess, page.Banner(err), "")
}

func (p *Pages) handleWearSearch(c *gin.Context) {
	sess := p.session(c)
	input := c.PostForm(formZipcode)
	err := p.ctrl.Search(c.Request.Context(), sess, p.bindPrefs(c), page.Wear, input)
	p.renderWear(c, sess, page.Banner(err), invalidInput(err, input))
}

func (p *Pages) handlePreview(c *gin.Context) {
	sess := p.session(c)
	fh, err := p.formFile(c)
	if err == nil {
		err = p.ctrl.SelectFile(sess, fh)
	}
	p.renderWear(c, sess, page.Banner(err), "")
}

func (p *Pages) handleSubmit(c *gin.Context) {
	sess := p.session(c)
	fh, err := p.formFile(c)
	if err == nil {
		err = p.ctrl.Submit(c.Request.Context(), sess, fh)
	}
	p.renderWear(c, sess, page.Banner(err), "")
}

func (p *Pages) renderWear(c *gin.Context, sess *session.Session, banner, input string) {
	view := p.ctrl.WearView(sess, banner)
	if input != "" {
		view.Input = input
	}
	c.HTML(http.StatusOK, wearTemplateName, wearPage{
		WearView: view,
		// The preview is a base64 data URL built from a sniffed image type.
		PreviewSrc:    template.URL(view.PreviewURL), //nolint:gosec // see above
		BannerDelayMs: p.opts.BannerTTL.Milliseconds(),
	})
}

// formFile returns the uploaded image, or nil when none was attached.
func (p *Pages) formFile(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(formImage)
	if err == nil {
		return fh, nil
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, &domain.ValidationError{Reason: "image_too_large", Message: domain.MsgImageTooLarge}
	}
	p.logger.Warn("read upload form failed", "error", err)
	return nil, &domain.ValidationError{Reason: "unreadable_image", Message: domain.MsgUnsupportedImage}
}

// --- helpers ---

// session returns the visitor's session, issuing a cookie for a new one.
func (p *Pages) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(SessionCookie)
	sess, created := p.sessions.GetOrNew(id)
	if created {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   p.opts.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (p *Pages) bindPrefs(c *gin.Context) preference.Store {
	return p.prefs.Bind(c.Writer, c.Request)
}

func (p *Pages) limitBody(c *gin.Context) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, p.opts.MaxUploadBytes+multipartOverhead)
	}
	c.Next()
}

// invalidInput keeps a rejected zipcode in the input box.
func invalidInput(err error, input string) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) && vErr.Reason == "zipcode" {
		return input
	}
	return ""
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

type chartPage struct {
	page.ChartView
	SVG           template.HTML
	OverlayClass  string
	CloseDelayMs  int64
	BannerDelayMs int64
}

type wearPage struct {
	page.WearView
	PreviewSrc    template.URL
	BannerDelayMs int64
}
