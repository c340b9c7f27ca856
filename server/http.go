// HTTP control and status API for the effect engine.
//
// The engine itself is single-threaded: every handler reaches it through
// the server's mutex, and the owning main loop advances it through the
// same mutex via Advance. That keeps the engine free of locking while
// letting the network collaborator poke at it between ticks.
package server

import (
	"encoding/json"
	"errors"
	"image/color"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"afterfire/engine"
)

// Server owns serialized access to one engine on behalf of HTTP clients.
type Server struct {
	mu    sync.Mutex
	eng   *engine.Engine
	start time.Time
}

// New wraps eng for HTTP control.
func New(eng *engine.Engine) *Server {
	return &Server{eng: eng, start: time.Now()}
}

// Advance runs one engine tick under the server's lock. The main loop
// calls this instead of touching the engine directly.
func (s *Server) Advance(now time.Time) []color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Advance(now)
}

// Handler returns the API routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/test/backfire", s.handleTestBackfire)
	mux.HandleFunc("/api/test/crackle", s.handleTestCrackle)
	mux.HandleFunc("/api/effects/", s.handleEffects)
	mux.HandleFunc("/api/threshold", s.handleThreshold)
	mux.HandleFunc("/api/calibrate/start", s.handleCalibrateStart)
	mux.HandleFunc("/api/calibrate/status", s.handleCalibrateStatus)
	mux.HandleFunc("/api/calibrate/capture/", s.handleCalibrateCapture)
	mux.HandleFunc("/api/calibrate/results", s.handleCalibrateResults)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

type statusResponse struct {
	engine.Status
	Uptime string `json:"uptime"`
}

func (s *Server) status() statusResponse {
	s.mu.Lock()
	st := s.eng.Status()
	s.mu.Unlock()
	return statusResponse{
		Status: st,
		Uptime: time.Since(s.start).Truncate(time.Second).String(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

type triggeredResponse struct {
	Triggered bool `json:"triggered"`
}

func (s *Server) handleTestBackfire(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.eng.TriggerTestBackfire(time.Now())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, triggeredResponse{Triggered: true})
}

func (s *Server) handleTestCrackle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.eng.TriggerTestCrackle(time.Now())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, triggeredResponse{Triggered: true})
}

type effectResponse struct {
	Enabled bool   `json:"enabled"`
	Error   string `json:"error,omitempty"`
}

// handleEffects serves /api/effects/{name}/{on|off}.
func (s *Server) handleEffects(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/effects/"), "/")
	if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
		writeJSON(w, http.StatusNotFound, effectResponse{Error: "unknown effect route"})
		return
	}
	name, enabled := parts[0], parts[1] == "on"

	s.mu.Lock()
	err := s.eng.SetEffectEnabled(name, enabled)
	s.mu.Unlock()

	if err != nil {
		writeJSON(w, statusFor(err), effectResponse{Enabled: enabled, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, effectResponse{Enabled: enabled})
}

type thresholdResponse struct {
	Param string `json:"param"`
	Value int    `json:"value"`
	Error string `json:"error,omitempty"`
}

// handleThreshold serves /api/threshold?param=<name>&value=<int>.
func (s *Server) handleThreshold(w http.ResponseWriter, r *http.Request) {
	param := r.URL.Query().Get("param")
	value, err := strconv.Atoi(r.URL.Query().Get("value"))
	if param == "" || err != nil {
		writeJSON(w, http.StatusBadRequest, thresholdResponse{Param: param, Error: "param and integer value required"})
		return
	}

	s.mu.Lock()
	err = s.eng.SetThreshold(param, value)
	s.mu.Unlock()

	if err != nil {
		writeJSON(w, statusFor(err), thresholdResponse{Param: param, Value: value, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, thresholdResponse{Param: param, Value: value})
}

type calibrateStatusResponse struct {
	Step     int    `json:"step"`
	StepName string `json:"stepName"`
}

func (s *Server) handleCalibrateStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.eng.StartCalibration()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleCalibrateStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	step := s.eng.CalibrationStep()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, calibrateStatusResponse{Step: int(step), StepName: step.String()})
}

type captureResponse struct {
	Captured bool   `json:"captured"`
	Value    uint16 `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleCalibrateCapture serves /api/calibrate/capture/{neutral|throttle|brake}.
func (s *Server) handleCalibrateCapture(w http.ResponseWriter, r *http.Request) {
	stepName := strings.TrimPrefix(r.URL.Path, "/api/calibrate/capture/")

	s.mu.Lock()
	value, err := s.eng.CaptureCalibration(stepName, time.Now())
	s.mu.Unlock()

	if err != nil {
		writeJSON(w, statusFor(err), captureResponse{Captured: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, captureResponse{Captured: true, Value: value})
}

type calibrateResults struct {
	Min        uint16 `json:"min"`
	Max        uint16 `json:"max"`
	Neutral    uint16 `json:"neutral"`
	NeutralMin uint16 `json:"neutral_min"`
	NeutralMax uint16 `json:"neutral_max"`
}

func (s *Server) handleCalibrateResults(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.eng.CalibrationResults()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, calibrateResults{
		Min:        p.MinPulse,
		Max:        p.MaxPulse,
		Neutral:    p.NeutralPulse,
		NeutralMin: p.NeutralLow,
		NeutralMax: p.NeutralHigh,
	})
}

// statusFor maps engine errors onto HTTP status codes. Protocol
// violations and unknown names are the client's fault; anything else
// (persistence failures) is reported as a server-side error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrWrongStep),
		errors.Is(err, engine.ErrUnknownEffect),
		errors.Is(err, engine.ErrUnknownParam):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
