package dashboard

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/cadence/internal/inbox"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/query"
	"github.com/zulandar/cadence/internal/store"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, st store.Store, q *query.Engine) {
	api := router.Group("/api")
	api.GET("/agenda", handleAgenda(q))
	api.GET("/notifications", handleNotifications(st))
	api.POST("/notifications/:id/dismiss", handleDismiss(st))
	api.POST("/notifications/:id/snooze", handleSnooze(st))
	api.GET("/settings", handleGetSettings(st))
	api.PUT("/settings", handlePutSettings(st))
}

// occurrenceJSON is the wire shape of one agenda entry.
type occurrenceJSON struct {
	EventID   string    `json:"event_id"`
	Index     int       `json:"index"`
	Title     string    `json:"title"`
	Ceremony  string    `json:"ceremony"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Location  string    `json:"location,omitempty"`
	IsVirtual bool      `json:"is_virtual"`
	Status    string    `json:"status"`
	TeamID    string    `json:"team_id,omitempty"`
	ARTID     string    `json:"art_id,omitempty"`
	PIID      string    `json:"pi_id,omitempty"`
}

func handleAgenda(q *query.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, err := parseTimeParam(c.Query("from"), time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from: " + err.Error()})
			return
		}
		to, err := parseTimeParam(c.Query("to"), from.AddDate(0, 0, 7))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to: " + err.Error()})
			return
		}

		filters := query.Filters{
			Ceremony:         models.CeremonyType(c.Query("ceremony")),
			TeamID:           c.Query("team"),
			ARTID:            c.Query("art"),
			PIID:             c.Query("pi"),
			Status:           c.Query("status"),
			IncludeCompleted: c.Query("include_completed") == "true",
			TitleContains:    c.Query("q"),
		}

		occs, err := q.Occurrences(c.Request.Context(), store.Window{Start: from, End: to}, filters)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		out := make([]occurrenceJSON, len(occs))
		for i, o := range occs {
			out[i] = occurrenceJSON{
				EventID:   o.Event.ID,
				Index:     o.Index,
				Title:     o.Event.Title,
				Ceremony:  string(o.Event.Ceremony),
				Start:     o.Start,
				End:       o.End,
				Location:  o.Event.Location,
				IsVirtual: o.Event.IsVirtual,
				Status:    o.Event.Status,
				TeamID:    o.Event.TeamID,
				ARTID:     o.Event.ARTID,
				PIID:      o.Event.ProgramIncrementID,
			}
		}
		c.JSON(http.StatusOK, gin.H{"occurrences": out})
	}
}

func handleNotifications(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		unreadOnly := c.Query("unread") == "true"
		notifications, err := inbox.List(c.Request.Context(), st, unreadOnly)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": notifications})
	}
}

func handleDismiss(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := inbox.Dismiss(c.Request.Context(), st, c.Param("id"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
	}
}

func handleSnooze(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Minutes int `json:"minutes"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		r, err := inbox.Snooze(c.Request.Context(), st, c.Param("id"), body.Minutes, time.Now())
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, store.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "snoozed", "reminder_id": r.ID, "remind_at": r.RemindAt})
	}
}

// settingsJSON is the wire shape of the notification settings.
type settingsJSON struct {
	Enabled                     bool            `json:"enabled"`
	SoundEnabled                bool            `json:"sound_enabled"`
	BrowserNotificationsEnabled bool            `json:"browser_notifications_enabled"`
	Categories                  map[string]bool `json:"categories"`
	QuietHoursEnabled           bool            `json:"quiet_hours_enabled"`
	QuietHoursStart             string          `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd               string          `json:"quiet_hours_end,omitempty"`
}

func handleGetSettings(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := st.Settings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toSettingsJSON(settings))
	}
}

func handlePutSettings(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body settingsJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Merge over the stored row so a request that omits a category
		// keeps its current toggle instead of resetting it to enabled.
		settings, err := st.Settings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		settings.Enabled = body.Enabled
		settings.SoundEnabled = body.SoundEnabled
		settings.BrowserNotificationsEnabled = body.BrowserNotificationsEnabled
		settings.QuietHoursEnabled = body.QuietHoursEnabled
		settings.QuietHoursStart = body.QuietHoursStart
		settings.QuietHoursEnd = body.QuietHoursEnd
		for cat, enabled := range body.Categories {
			if err := settings.SetCategory(cat, enabled); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		if err := st.SaveSettings(c.Request.Context(), settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toSettingsJSON(settings))
	}
}

func toSettingsJSON(s models.NotificationSettings) settingsJSON {
	cats := make(map[string]bool, len(models.Categories))
	for _, cat := range models.Categories {
		cats[cat] = s.CategoryEnabled(cat)
	}
	return settingsJSON{
		Enabled:                     s.Enabled,
		SoundEnabled:                s.SoundEnabled,
		BrowserNotificationsEnabled: s.BrowserNotificationsEnabled,
		Categories:                  cats,
		QuietHoursEnabled:           s.QuietHoursEnabled,
		QuietHoursStart:             s.QuietHoursStart,
		QuietHoursEnd:               s.QuietHoursEnd,
	}
}

// parseTimeParam parses an RFC 3339 or date-only query value, returning
// fallback when the value is empty.
func parseTimeParam(v string, fallback time.Time) (time.Time, error) {
	if v == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
