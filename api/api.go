// Package api is a small read-only HTTP API for checking on the bot.
package api

import (
	"context"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/snitch"
	"github.com/starshine-sys/snitch/store"
)

// GroupSource returns a guild's snitch groups.
type GroupSource interface {
	Groups(ctx context.Context, guildID snitch.ID) (map[string]snitch.Group, error)
}

type Server struct {
	Groups GroupSource
	Guilds store.GuildStore

	mux *chi.Mux
	srv *http.Server
}

func New(groups GroupSource, guilds store.GuildStore) *Server {
	s := &Server{
		Groups: groups,
		Guilds: guilds,
		mux:    chi.NewMux(),
	}

	s.mux.Use(middleware.Recoverer)
	s.mux.Use(render.SetContentType(render.ContentTypeJSON))

	s.mux.Get("/health", s.health)
	s.mux.Get("/guilds/{id}/snitch", s.guildGroups)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Listen starts serving on addr in the background.
func (s *Server) Listen(addr string) {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("API listening on %v", addr)

		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("serving API: %v", err)
		}
	}()
}

// Close stops the server if it's running.
func (s *Server) Close() error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

type errorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Status: status, Error: msg})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Guilds  int    `json:"guilds"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	guilds, err := s.Guilds.Guilds(r.Context())
	if err != nil {
		log.Errorf("getting guilds for health check: %v", err)
		s.error(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	render.JSON(w, r, healthResponse{
		Status:  "ok",
		Version: common.Version(),
		Guilds:  len(guilds),
	})
}

type groupsResponse struct {
	GuildID string                  `json:"guild_id"`
	Groups  map[string]snitch.Group `json:"groups"`
}

func (s *Server) guildGroups(w http.ResponseWriter, r *http.Request) {
	sf, err := discord.ParseSnowflake(chi.URLParam(r, "id"))
	if err != nil {
		s.error(w, r, http.StatusBadRequest, "invalid guild ID")
		return
	}
	guildID := discord.GuildID(sf)

	_, err = s.Guilds.Guild(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.error(w, r, http.StatusNotFound, "guild not found")
			return
		}
		log.Errorf("getting guild %v: %v", guildID, err)
		s.error(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	groups, err := s.Groups.Groups(r.Context(), snitch.ID(guildID))
	if err != nil {
		log.Errorf("getting groups for guild %v: %v", guildID, err)
		s.error(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	render.JSON(w, r, groupsResponse{GuildID: guildID.String(), Groups: groups})
}
