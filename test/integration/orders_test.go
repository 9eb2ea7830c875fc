package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoul(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return time.Date(2025, 10, day, hour, minute, 0, 0, loc)
}

func (app *TestApp) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	resp, err := app.Client.Post(app.Server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

// TestOrderDay walks one ordering day: announce, vote, switch vote,
// close with the final announcement, then a rejected late vote.
func TestOrderDay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, seoul(t, 14, 12, 0))
	defer app.Teardown(t)

	// 1. Announce
	resp := app.post(t, "/api/admin/announcements", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.post(t, "/api/admin/announcements", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// 2. Vote, then switch
	resp = app.post(t, "/api/votes", map[string]string{"user_id": "U1", "user_name": "Kim", "menu": "homestyle"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	app.Clock.Advance(5 * time.Minute)
	resp = app.post(t, "/api/votes", map[string]string{"user_id": "U1", "user_name": "Kim", "menu": "freshmeal"})
	var switched map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&switched))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "homestyle", switched["previous_menu"])

	// 3. Concurrent voters
	var wg sync.WaitGroup
	for _, id := range []string{"U2", "U3", "U4"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			resp := app.post(t, "/api/votes", map[string]string{"user_id": id, "menu": "homestyle"})
			resp.Body.Close()
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
		}(id)
	}
	wg.Wait()

	// 4. Close with the final announcement
	app.Clock.Set(seoul(t, 14, 14, 0))
	resp = app.post(t, "/api/admin/close-final", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	posts, updates := app.Announcer.counts()
	assert.Equal(t, 1, posts)
	assert.GreaterOrEqual(t, updates, 1)

	// 5. Late vote
	resp = app.post(t, "/api/votes", map[string]string{"user_id": "U5", "menu": "homestyle"})
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// 6. Query
	resp, err := app.Client.Get(app.Server.URL + "/api/orders?period=2025-10-14")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		TotalVotes int            `json:"total_votes"`
		MenuTotals map[string]int `json:"menu_totals"`
		Session    struct {
			Closed      bool `json:"closed"`
			MessageSent bool `json:"message_sent"`
		} `json:"session"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 4, summary.TotalVotes)
	assert.Equal(t, 3, summary.MenuTotals["homestyle"])
	assert.Equal(t, 1, summary.MenuTotals["freshmeal"])
	assert.True(t, summary.Session.Closed)
	assert.True(t, summary.Session.MessageSent)
}

func TestQueryRange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, seoul(t, 13, 12, 30))
	defer app.Teardown(t)

	for day, users := range map[int][]string{13: {"U1", "U2"}, 15: {"U1"}} {
		app.Clock.Set(seoul(t, day, 12, 30))
		for _, id := range users {
			resp := app.post(t, "/api/votes", map[string]string{"user_id": id, "menu": "freshmeal"})
			resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}
	}

	resp, err := app.Client.Get(app.Server.URL + "/api/orders?period=2025-10-13~2025-10-15")
	require.NoError(t, err)
	defer resp.Body.Close()

	var summary struct {
		TotalVotes int `json:"total_votes"`
		Days       []struct {
			Date string `json:"date"`
		} `json:"days"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 3, summary.TotalVotes)
	require.Len(t, summary.Days, 2)
	assert.Equal(t, "2025-10-13", summary.Days[0].Date)
	assert.Equal(t, "2025-10-15", summary.Days[1].Date)

	resp2, err := app.Client.Get(app.Server.URL + "/api/orders?period=2025-10-15~2025-10-13")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}
