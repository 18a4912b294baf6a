//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMessagesReachMembersOverWebsocket(t *testing.T) {
	s := newServer(t)
	alice, aliceID := s.register(t, "Alice", "alice@example.com")
	bob, bobID := s.register(t, "Bobby", "bob@example.com")
	carol, _ := s.register(t, "Carol", "carol@example.com")

	header := http.Header{"Authorization": {"Bearer " + bob}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http")+"/ws", header)
	require.NoError(t, err)
	defer conn.Close()

	// Registration with the hub completes just after the handshake.
	time.Sleep(200 * time.Millisecond)

	resp, env := s.do(t, http.MethodPost, "/api/v1/conversations", map[string]any{"receiver_id": bobID}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	conversation := decodeData[struct {
		ID    string   `json:"id"`
		Name  string   `json:"name"`
		Users []string `json:"users"`
	}](t, env)
	assert.Equal(t, "Bobby", conversation.Name)
	assert.ElementsMatch(t, []string{aliceID, bobID}, conversation.Users)

	resp, env = s.do(t, http.MethodPost, "/api/v1/conversations", map[string]any{"receiver_id": bobID}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, conversation.ID, decodeData[idOnly](t, env).ID)

	messagesPath := "/api/v1/conversations/" + conversation.ID + "/messages"
	resp, env = s.do(t, http.MethodPost, messagesPath, map[string]any{"message": "hello bob"}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = s.do(t, http.MethodGet, messagesPath, nil, carol)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = s.do(t, http.MethodGet, messagesPath, nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeData[[]any](t, env), 1)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var evt struct {
			Type    string         `json:"type"`
			ActorID string         `json:"actor_id"`
			Payload map[string]any `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &evt))
		if evt.Type != "message.created" {
			continue
		}
		assert.Equal(t, aliceID, evt.ActorID)
		assert.Equal(t, "hello bob", evt.Payload["message"])
		break
	}
}

func TestFavoritesAndExpenses(t *testing.T) {
	s := newServer(t)
	admin, _ := s.registerAdmin(t, "Admin", "admin@example.com")
	alice, _ := s.register(t, "Alice", "alice@example.com")
	bob, _ := s.register(t, "Bobby", "bob@example.com")

	resp, env := s.do(t, http.MethodPost, "/api/v1/movies", map[string]any{
		"title": "Heat", "description": "Crime", "image": "/images/movies/heat.jpg",
		"duration_min": 170, "published_year": 1995, "type": "movie", "trending": true,
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	movie := decodeData[idOnly](t, env)

	resp, env = s.do(t, http.MethodGet, "/api/v1/movies/trending", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeData[[]any](t, env), 1)

	resp, env = s.do(t, http.MethodPost, "/api/v1/favorites", map[string]string{"movie_id": movie.ID}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	favorite := decodeData[idOnly](t, env)

	resp, _ = s.do(t, http.MethodPost, "/api/v1/favorites", map[string]string{"movie_id": movie.ID}, alice)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = s.do(t, http.MethodDelete, "/api/v1/favorites/"+favorite.ID, nil, bob)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "You are not authorized to delete this favorite movie", env.Message)

	resp, _ = s.do(t, http.MethodDelete, "/api/v1/favorites/"+favorite.ID, nil, alice)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = s.do(t, http.MethodPost, "/api/v1/expenses", map[string]any{"title": "Lunch"}, alice)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "All fields are required", env.Message)

	resp, env = s.do(t, http.MethodPost, "/api/v1/expenses", map[string]any{
		"title": "Lunch", "amount": 12.5, "date": "2026-02-01T12:00:00Z", "category": "gadgets",
	}, alice)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid category", env.Message)

	resp, env = s.do(t, http.MethodPost, "/api/v1/expenses", map[string]any{
		"title": "Lunch", "amount": 12.5, "date": "2026-02-01", "category": "Food",
	}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	expense := decodeData[idOnly](t, env)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/expenses/"+expense.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env = s.do(t, http.MethodGet, "/api/v1/expenses", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeData[[]any](t, env), 1)
}

func TestBannerUploadIsServed(t *testing.T) {
	s := newServer(t)
	admin, _ := s.registerAdmin(t, "Admin", "admin@example.com")

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Spring sale"))
	require.NoError(t, mw.WriteField("target_url", "https://shop.example.com/sale"))
	require.NoError(t, mw.WriteField("start_date", "2026-03-01"))
	part, err := mw.CreateFormFile("image", "banner.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/v1/banners", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	banner := decodeData[struct {
		ImageURL string `json:"image_url"`
		IsActive bool   `json:"is_active"`
	}](t, env)
	assert.True(t, banner.IsActive)
	require.True(t, strings.HasPrefix(banner.ImageURL, "/images/banners/"), banner.ImageURL)

	imgResp, err := http.Get(s.URL + banner.ImageURL)
	require.NoError(t, err)
	defer imgResp.Body.Close()
	assert.Equal(t, http.StatusOK, imgResp.StatusCode)
	assert.Equal(t, "image/png", imgResp.Header.Get("Content-Type"))
}
