package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/durak/deck"
	"github.com/minaorangina/durak/protocol"
	"github.com/minaorangina/durak/store"
	"github.com/stretchr/testify/require"
)

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}

// shortDeck deals p1 the seven of hearts and the nine of clubs, and p2
// the ten of hearts, leaving no deck and no trump
func shortDeck() deck.Deck {
	d := deck.Deck{}
	for _, id := range []string{"7-hearts", "10-hearts", "9-clubs"} {
		c, err := deck.ParseCard(id)
		if err != nil {
			panic(err)
		}
		d = append(d, c)
	}
	return d
}

func newTestServer(t *testing.T) (*GameServer, *store.InMemoryGameStore) {
	t.Helper()
	st := store.NewInMemoryGameStore(store.StoreOpts{NewDeck: shortDeck})
	return NewServer(st, ServerOpts{}), st
}

func mustMakeJson(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func post(t *testing.T, server http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var data []byte
	if body != nil {
		data = mustMakeJson(t, body)
	}
	request, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	response := httptest.NewRecorder()
	server.ServeHTTP(response, request)
	return response
}

func get(t *testing.T, server http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	request, _ := http.NewRequest(http.MethodGet, path, nil)
	response := httptest.NewRecorder()
	server.ServeHTTP(response, request)
	return response
}

func decodeBody(t *testing.T, response *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), v), response.Body.String())
}

// newRoom creates a room through the API and returns the game and creator IDs
func newRoom(t *testing.T, server http.Handler, name string, maxPlayers int) (string, string) {
	t.Helper()

	response := post(t, server, "/new", NewGameReq{Name: name, MaxPlayers: maxPlayers})
	assertStatus(t, response.Code, http.StatusCreated)

	var res PendingGameRes
	decodeBody(t, response, &res)
	return res.GameID, res.PlayerID
}

func joinRoom(t *testing.T, server http.Handler, gameID, name string) PendingGameRes {
	t.Helper()

	response := post(t, server, "/join", JoinGameReq{GameID: gameID, Name: name})
	assertStatus(t, response.Code, http.StatusOK)

	var res PendingGameRes
	decodeBody(t, response, &res)
	return res
}

func dialWS(t *testing.T, ts *httptest.Server, gameID, playerID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?game_id=" + gameID + "&player_id=" + playerID
	return websocket.DefaultDialer.Dial(url, nil)
}

func mustDialWS(t *testing.T, ts *httptest.Server, gameID, playerID string) *websocket.Conn {
	t.Helper()
	conn, _, err := dialWS(t, ts, gameID, playerID)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) protocol.OutboundMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg protocol.OutboundMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil skips messages until one with the wanted command arrives
func readUntil(t *testing.T, conn *websocket.Conn, cmd protocol.Cmd) protocol.OutboundMessage {
	t.Helper()

	for i := 0; i < 10; i++ {
		if msg := readMessage(t, conn); msg.Command == cmd {
			return msg
		}
	}
	t.Fatalf("never received %s", cmd)
	return protocol.OutboundMessage{}
}
