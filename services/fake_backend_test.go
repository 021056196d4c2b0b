package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/models"
)

var testSession = models.Session{Username: "viewer", Token: "tok", Role: "user"}

type notification struct {
	Username string
	Event    string
	Payload  any
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(username, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{username, event, payload})
}

func (n *recordingNotifier) events() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

// fakeBackend is an in-memory stand-in for the REST backend
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu            sync.Mutex
	relations     map[models.RelationKind][]string
	savedSearches []models.SavedSearch
	outgoing      []models.PiiRequest
	incoming      []models.PiiRequest
	received      []models.ReceivedAccess
	images        map[string][]models.ImageVisibility
	profiles      map[string]models.UserSummary
	searchPages   map[int][]models.UserSummary
	searchTotal   int
	online        []string
	forced        map[string]int
	calls         []string
	headers       []http.Header
	searchGate    chan struct{}
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		t:           t,
		relations:   map[models.RelationKind][]string{},
		images:      map[string][]models.ImageVisibility{},
		profiles:    map[string]models.UserSummary{},
		searchPages: map[int][]models.UserSummary{},
		forced:      map[string]int{},
	}

	r := mux.NewRouter()
	r.Use(fb.record)
	r.HandleFunc("/search", fb.search).Methods(http.MethodGet)
	r.HandleFunc("/profile/{username}", fb.profile).Methods(http.MethodGet)
	r.HandleFunc("/profile/{username}/image-visibility", fb.imageVisibility).Methods(http.MethodGet)
	r.HandleFunc("/online-status/users", func(w http.ResponseWriter, _ *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"onlineUsers": fb.online})
	}).Methods(http.MethodGet)
	r.HandleFunc("/{username}/saved-searches", fb.listSaved).Methods(http.MethodGet)
	r.HandleFunc("/{username}/saved-searches", fb.createSaved).Methods(http.MethodPost)
	r.HandleFunc("/{username}/saved-searches/{id}", fb.deleteSaved).Methods(http.MethodDelete)
	r.HandleFunc("/pii-request", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
	}).Methods(http.MethodPost)
	r.HandleFunc("/pii-requests/{username}/outgoing", func(w http.ResponseWriter, _ *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"requests": fb.outgoing})
	}).Methods(http.MethodGet)
	r.HandleFunc("/pii-requests/{username}/incoming", func(w http.ResponseWriter, _ *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"requests": fb.incoming})
	}).Methods(http.MethodGet)
	r.HandleFunc("/pii-access/{username}/received", func(w http.ResponseWriter, _ *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"receivedAccess": fb.received})
	}).Methods(http.MethodGet)
	r.HandleFunc("/pii-requests/{id}/approve", noContent).Methods(http.MethodPut)
	r.HandleFunc("/pii-requests/{id}", noContent).Methods(http.MethodDelete)
	for _, kind := range models.RelationKinds {
		r.HandleFunc("/"+string(kind)+"/{username}", fb.listRelation(kind)).Methods(http.MethodGet)
		r.HandleFunc("/"+string(kind)+"/{target}", fb.addRelation(kind)).Methods(http.MethodPost)
		r.HandleFunc("/"+string(kind)+"/{target}", fb.removeRelation(kind)).Methods(http.MethodDelete)
	}

	fb.server = httptest.NewServer(r)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) client() *BackendClient {
	return NewBackendClient(BackendConfig{BaseURL: fb.server.URL, Timeout: 5 * time.Second}, zap.NewNop())
}

// force makes "METHOD path" answer with status
func (fb *fakeBackend) force(method, path string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.forced[method+" "+path] = status
}

func (fb *fakeBackend) callLog() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.calls...)
}

func (fb *fakeBackend) countCalls(call string) int {
	n := 0
	for _, c := range fb.callLog() {
		if c == call {
			n++
		}
	}
	return n
}

func (fb *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		fb.mu.Lock()
		fb.calls = append(fb.calls, key)
		fb.headers = append(fb.headers, r.Header.Clone())
		status, forced := fb.forced[key]
		fb.mu.Unlock()
		if forced {
			writeJSON(w, status, map[string]any{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fb *fakeBackend) search(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	gate := fb.searchGate
	fb.mu.Unlock()
	if gate != nil {
		<-gate
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	users := fb.searchPages[page]
	totalPages := len(fb.searchPages)
	writeJSON(w, http.StatusOK, models.SearchResponse{
		Users:      users,
		Total:      fb.searchTotal,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

func (fb *fakeBackend) profile(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	p, ok := fb.profiles[mux.Vars(r)["username"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (fb *fakeBackend) imageVisibility(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"images": fb.images[mux.Vars(r)["username"]]})
}

func (fb *fakeBackend) listSaved(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"savedSearches": fb.savedSearches, "count": len(fb.savedSearches)})
}

func (fb *fakeBackend) createSaved(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string                `json:"name"`
		Criteria models.SearchCriteria `json:"criteria"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": err.Error()})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	saved := models.SavedSearch{
		ID:       fmt.Sprintf("s%d", len(fb.savedSearches)+1),
		Username: mux.Vars(r)["username"],
		Name:     body.Name,
		Criteria: body.Criteria,
	}
	fb.savedSearches = append(fb.savedSearches, saved)
	writeJSON(w, http.StatusCreated, map[string]any{"savedSearch": saved})
}

func (fb *fakeBackend) deleteSaved(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i, s := range fb.savedSearches {
		if s.ID == id {
			fb.savedSearches = append(fb.savedSearches[:i], fb.savedSearches[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Saved search not found"})
}

func (fb *fakeBackend) listRelation(kind models.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		// favorites come back as profile objects, the rest as bare names
		if kind == models.RelationFavorites {
			rows := make([]map[string]string, 0, len(fb.relations[kind]))
			for _, n := range fb.relations[kind] {
				rows = append(rows, map[string]string{"favoriteUsername": n})
			}
			writeJSON(w, http.StatusOK, map[string]any{string(kind): rows})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{string(kind): fb.relations[kind]})
	}
}

func (fb *fakeBackend) addRelation(kind models.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		target := mux.Vars(r)["target"]
		for _, n := range fb.relations[kind] {
			if n == target {
				writeJSON(w, http.StatusConflict, map[string]any{"detail": "Already present"})
				return
			}
		}
		fb.relations[kind] = append(fb.relations[kind], target)
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
	}
}

func (fb *fakeBackend) removeRelation(kind models.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		target := mux.Vars(r)["target"]
		for i, n := range fb.relations[kind] {
			if n == target {
				fb.relations[kind] = append(fb.relations[kind][:i], fb.relations[kind][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found"})
	}
}

// update mutates backend state under its lock
func (fb *fakeBackend) update(fn func(fb *fakeBackend)) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fn(fb)
}

func (fb *fakeBackend) setRelation(kind models.RelationKind, names ...string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.relations[kind] = names
}

func (fb *fakeBackend) relationList(kind models.RelationKind) []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.relations[kind]...)
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
