/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/sadari/games/draw"
	"github.com/Seednode/sadari/games/ladder"
)

const maxBodySize = 64 << 10

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNoParticipants   = errors.New("at least one participant is required")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type teamsResponse struct {
	Participants   int   `json:"participants"`
	MembersPerTeam int   `json:"members_per_team"`
	TeamSizes      []int `json:"team_sizes"`
}

type ladderRequest struct {
	Names          []string `json:"names"`
	Data           string   `json:"data"`
	MembersPerTeam int      `json:"members_per_team"`
	AllAtOnce      bool     `json:"all_at_once"`
}

type ladderResponse struct {
	ladder.Game
	Playback []ladder.Frame `json:"playback"`
}

type drawResponse struct {
	Min      int                `json:"min"`
	Max      int                `json:"max"`
	Numbers  []int              `json:"numbers"`
	Reveal   []draw.RevealFrame `json:"reveal,omitempty"`
	Duration time.Duration      `json:"duration,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) error {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	return writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errorCode maps domain errors to the codes clients see.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, ErrNoParticipants):
		return "no_participants"
	case errors.Is(err, ladder.ErrInvalidTeamSize):
		return "invalid_team_size"
	case errors.Is(err, ladder.ErrInvalidParticipantCount):
		return "invalid_participant_count"
	case errors.Is(err, draw.ErrInvalidRange),
		errors.Is(err, draw.ErrOutOfBounds):
		return "invalid_range"
	case errors.Is(err, draw.ErrInvalidCount),
		errors.Is(err, draw.ErrTooMany),
		errors.Is(err, draw.ErrCountExceedsRange):
		return "invalid_count"
	}
	return "invalid_parameter"
}

func queryInt(r *http.Request, name string, fallback int, required bool) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s", ErrMissingParameter, name)
		}
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidParameter, name, raw)
	}

	return v, nil
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func serveTeams(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		securityHeaders(cfg, w)

		var err error
		defer func() {
			if err != nil {
				report(errs, err)
			}
		}()

		participants, perr := queryInt(r, "participants", 0, true)
		if perr != nil {
			err = writeError(w, http.StatusBadRequest, errorCode(perr), perr)
			return
		}

		size, perr := queryInt(r, "size", cfg.teamSize, false)
		if perr != nil {
			err = writeError(w, http.StatusBadRequest, errorCode(perr), perr)
			return
		}

		sizes, perr := ladder.Partition(participants, size)
		if perr != nil {
			err = writeError(w, http.StatusBadRequest, errorCode(perr), perr)
			return
		}
		if sizes == nil {
			sizes = []int{}
		}

		err = writeJSON(w, http.StatusOK, teamsResponse{
			Participants:   min(participants, ladder.MaxParticipants),
			MembersPerTeam: size,
			TeamSizes:      sizes,
		})

		logf(cfg, "SERVE: Team sizes for %d in teams of %d to %s in %s",
			participants, size, realIP(r), time.Since(startTime).Round(time.Microsecond))
	}
}

func serveLadder(cfg *Config, m *Metrics, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		securityHeaders(cfg, w)

		var err error
		defer func() {
			if err != nil {
				report(errs, err)
			}
		}()

		var req ladderRequest
		body, rerr := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if rerr == nil {
			rerr = json.Unmarshal(body, &req)
		}
		if rerr != nil {
			rerr = fmt.Errorf("%w: request body: %v", ErrInvalidParameter, rerr)
			err = writeError(w, http.StatusBadRequest, errorCode(rerr), rerr)
			return
		}

		var names []string
		truncated := false
		if req.Data != "" {
			names, truncated = ladder.ParseNames(req.Data)
		} else {
			names, truncated = cleanNames(req.Names)
		}
		if len(names) == 0 {
			err = writeError(w, http.StatusBadRequest, errorCode(ErrNoParticipants), ErrNoParticipants)
			return
		}

		membersPerTeam := req.MembersPerTeam
		if membersPerTeam == 0 {
			membersPerTeam = cfg.teamSize
		}

		game, perr := ladder.Play(ladder.AssignCharacters(names, nil), membersPerTeam, nil)
		if perr != nil {
			err = writeError(w, http.StatusBadRequest, errorCode(perr), perr)
			return
		}
		game.Truncated = game.Truncated || truncated

		m.ladderGenerated(len(game.Participants))

		mode := ladder.OneByOne
		if req.AllAtOnce {
			mode = ladder.AllAtOnce
		}

		err = writeJSON(w, http.StatusOK, ladderResponse{
			Game:     game,
			Playback: ladder.Playback(game.Result, mode),
		})

		logf(cfg, "SERVE: Ladder for %d participants to %s in %s",
			len(game.Participants), realIP(r), time.Since(startTime).Round(time.Microsecond))
	}
}

func serveDraw(cfg *Config, m *Metrics, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		securityHeaders(cfg, w)

		var err error
		defer func() {
			if err != nil {
				report(errs, err)
			}
		}()

		bounds := make([]int, 3)
		for i, p := range []struct {
			name     string
			fallback int
		}{
			{"min", draw.DefaultMin},
			{"max", draw.DefaultMax},
			{"count", draw.DefaultCount},
		} {
			v, perr := queryInt(r, p.name, p.fallback, false)
			if perr != nil {
				err = writeError(w, http.StatusBadRequest, errorCode(perr), perr)
				return
			}
			bounds[i] = v
		}
		lo, hi, count := bounds[0], bounds[1], bounds[2]

		numbers, perr := draw.Draw(lo, hi, count, nil)
		if perr != nil {
			err = writeError(w, http.StatusBadRequest, errorCode(perr), perr)
			return
		}

		m.drawn()

		resp := drawResponse{Min: lo, Max: hi, Numbers: numbers}
		if queryBool(r, "animate") {
			resp.Reveal = draw.Reveal(numbers, lo, hi, nil)
			resp.Duration = draw.Duration(resp.Reveal)
		}

		err = writeJSON(w, http.StatusOK, resp)

		logf(cfg, "SERVE: Drew %d from %d..%d for %s in %s",
			count, lo, hi, realIP(r), time.Since(startTime).Round(time.Microsecond))
	}
}

func registerAPI(cfg *Config, mux *httprouter.Router, m *Metrics, errs chan<- error) {
	mux.GET(cfg.prefix+"/api/teams", m.instrument("/api/teams", serveTeams(cfg, errs)))
	mux.POST(cfg.prefix+"/api/ladder", m.instrument("/api/ladder", serveLadder(cfg, m, errs)))
	mux.GET(cfg.prefix+"/api/draw", m.instrument("/api/draw", serveDraw(cfg, m, errs)))
}
