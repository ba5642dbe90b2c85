package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"library-management-backend/app"
	"library-management-backend/db"
	"library-management-backend/session"
	"library-management-backend/workflow"
	"library-management-backend/ws"
)

type Srv struct {
	Repo    *db.Repo
	Flow    *workflow.Core
	AppSess *session.AppSessionStore
	Hub     *ws.Hub
	Cfg     app.Config
	Log     zerolog.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo: db.NewRepo(a.DB),
		Flow: workflow.New(a.DB, workflow.Config{
			FineRatePerDay: a.Config.FineRatePerDay,
			LoanPeriod:     time.Duration(a.Config.LoanPeriodDays) * 24 * time.Hour,
		}),
		AppSess: a.AppSessions(),
		Hub:     ws.NewHub(a.Log),
		Cfg:     a.Config,
		Log:     a.Log,
	}
}

// --- helpers ---

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// fail maps workflow errors onto the wire. Taxonomy messages go out
// verbatim; anything unclassified is logged and hidden behind a 500.
func (s *Srv) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		s.Log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		c.JSON(status, app.H{"error": "internal server error"})
		return
	}
	body := app.H{"error": err.Error()}
	if workflow.Retryable(err) {
		body["retryable"] = true
	}
	c.JSON(status, body)
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrNotAvailable),
		errors.Is(err, workflow.ErrDuplicateBorrow),
		errors.Is(err, workflow.ErrBorrowLimitExceeded),
		errors.Is(err, workflow.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func currentUserID(c *gin.Context) string {
	v, _ := c.Get("userID")
	uid, _ := v.(string)
	return uid
}

func isAdmin(c *gin.Context) bool {
	v, _ := c.Get("isAdmin")
	b, _ := v.(bool)
	return b
}

// canAccessUser: members only see their own records, admins see anyone's.
func canAccessUser(c *gin.Context, userID string) bool {
	return isAdmin(c) || currentUserID(c) == userID
}
