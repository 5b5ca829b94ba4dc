package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type SettingsController struct {
	store SettingsStore
}

func NewSettingsController(store SettingsStore) *SettingsController {
	return &SettingsController{store: store}
}

func (sc *SettingsController) Get(c *gin.Context) {
	settings, err := sc.store.Get(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "retrieve settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /api/settings. All four flags are replaced; anything
// other than a JSON boolean counts as false.
func (sc *SettingsController) Update(c *gin.Context) {
	var body map[string]any
	if !bindJSON(c, &body) {
		return
	}

	settings, err := sc.store.Update(GetUserID(c), entities.UserSettings{
		PushEnabled:       boolField(body, "push_enabled"),
		DailyReminders:    boolField(body, "daily_reminders"),
		SessionReminders:  boolField(body, "session_reminders"),
		AchievementAlerts: boolField(body, "achievement_alerts"),
	})
	if err != nil {
		respondInternalError(c, err, "update settings")
		return
	}
	respondSuccess(c, "Settings updated successfully", settings)
}

func boolField(body map[string]any, key string) bool {
	v, ok := body[key].(bool)
	return ok && v
}
