package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/service"
)

const (
	msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	visitsCookie    = "num_visits"
)

func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, PageLogin, LoginView{
		Base: h.base(c, "Log in"),
		Form: models.LoginForm{Next: c.Query("next")},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}
	form.Username = strings.TrimSpace(form.Username)

	d, err := h.svc.Driver().Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		form.Password = ""
		h.render(c, http.StatusOK, PageLogin, LoginView{
			Base:  h.base(c, "Log in"),
			Form:  form,
			Error: msgInvalidLogin,
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.tokens.Generate(d.ID, d.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)

	requestLog(c, h.log).Info("driver logged in", logger.Int64("id", d.ID), logger.String("username", d.Username))
	h.redirect(c, safeNext(form.Next))
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, "", -1, "/", "", false, true)
	h.redirect(c, URL(RouteLogin))
}

// safeNext keeps redirects on this host.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return URL(RouteIndex)
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return URL(RouteIndex)
	}
	return next
}

func (h *Handler) Index(c *gin.Context) {
	counts, err := h.svc.Dashboard().Counts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	visits := 0
	if raw, err := c.Cookie(visitsCookie); err == nil {
		visits, _ = strconv.Atoi(raw)
	}
	visits++
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitsCookie, strconv.Itoa(visits), int(h.tokens.TTL().Seconds()), "/", "", false, true)

	h.render(c, http.StatusOK, PageIndex, IndexView{
		Base:   h.base(c, "Home"),
		Counts: counts,
		Visits: visits,
	})
}
