package backend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hackorsnooze/internal/domain"
)

type handlers struct {
	store *memoryStore
}

func (h *handlers) routes(r chi.Router) {
	r.Get("/stories", h.listStories)
	r.Post("/stories", h.createStory)
	r.Patch("/stories/{storyId}", h.updateStory)
	r.Delete("/stories/{storyId}", h.deleteStory)

	r.Post("/signup", h.signup)
	r.Post("/login", h.login)

	r.Get("/users/{username}", h.getUser)
	r.Patch("/users/{username}", h.updateUser)
	r.Post("/users/{username}/favorites/{storyId}", h.addFavorite)
	r.Delete("/users/{username}/favorites/{storyId}", h.removeFavorite)
}

func (h *handlers) listStories(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{"stories": h.store.list(max(skip, 0), limit)})
}

type storyRequest[T any] struct {
	Token string `json:"token"`
	Story T      `json:"story"`
}

func (h *handlers) createStory(w http.ResponseWriter, r *http.Request) {
	var in storyRequest[domain.Draft]
	if !decode(w, r, &in) {
		return
	}
	rec, err := h.store.create(tokenOf(r, in.Token), in.Story)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"story": rec})
}

func (h *handlers) updateStory(w http.ResponseWriter, r *http.Request) {
	var in storyRequest[domain.StoryPatch]
	if !decode(w, r, &in) {
		return
	}
	rec, err := h.store.update(tokenOf(r, in.Token), chi.URLParam(r, "storyId"), in.Story)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"story": rec})
}

func (h *handlers) deleteStory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &in) {
		return
	}
	rec, err := h.store.remove(tokenOf(r, in.Token), chi.URLParam(r, "storyId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted story", "story": rec})
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		User domain.Signup `json:"user"`
	}
	if !decode(w, r, &in) {
		return
	}
	user, token, err := h.store.signup(in.User)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		User struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if !decode(w, r, &in) {
		return
	}
	user, token, err := h.store.login(in.User.Username, in.User.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.profile(r.URL.Query().Get("token"), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
		User  struct {
			Name     string `json:"name"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if !decode(w, r, &in) {
		return
	}
	user, err := h.store.updateProfile(tokenOf(r, in.Token), chi.URLParam(r, "username"), in.User.Name, in.User.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	h.favorite(w, r, true, "Favorite added!")
}

func (h *handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	h.favorite(w, r, false, "Favorite removed!")
}

func (h *handlers) favorite(w http.ResponseWriter, r *http.Request, add bool, msg string) {
	var in struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &in) {
		return
	}
	user, err := h.store.favorite(tokenOf(r, in.Token), chi.URLParam(r, "username"), chi.URLParam(r, "storyId"), add)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg, "user": user})
}

// tokenOf prefers the body token and falls back to ?token=.
func tokenOf(r *http.Request, body string) string {
	if body != "" {
		return body
	}
	return r.URL.Query().Get("token")
}

// decode reads a JSON body. An empty body leaves v zero.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, fail(http.StatusBadRequest, "invalid JSON body: "+err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var ae *apiError
	if errors.As(err, &ae) {
		status = ae.status
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"status":  status,
			"title":   http.StatusText(status),
			"message": err.Error(),
		},
	})
}
