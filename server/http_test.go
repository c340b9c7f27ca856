package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"afterfire/engine"
)

func newTestServer() (*Server, *engine.Engine) {
	eng := engine.New(1, rand.New(rand.NewSource(1)))
	return New(eng), eng
}

func doJSON(t *testing.T, h http.Handler, method, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	if out != nil {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: bad JSON %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr
}

func TestStatusEndpoint(t *testing.T) {
	srv, eng := newTestServer()
	eng.Pulse().Store(1972)

	var got struct {
		PWM      uint16 `json:"pwm"`
		Throttle int    `json:"throttle"`
		Burst    bool   `json:"burst"`
		Uptime   string `json:"uptime"`
	}
	rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/status", &got)
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d", rr.Code)
	}
	if got.PWM != 1972 || got.Throttle != 60 || got.Burst {
		t.Errorf("status body = %+v", got)
	}
	if got.Uptime == "" {
		t.Error("uptime missing")
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestTestTriggerEndpoints(t *testing.T) {
	srv, eng := newTestServer()
	h := srv.Handler()

	var got struct {
		Triggered bool `json:"triggered"`
	}
	rr := doJSON(t, h, http.MethodGet, "/api/test/backfire", &got)
	if rr.Code != http.StatusOK || !got.Triggered {
		t.Errorf("backfire trigger: code=%d body=%+v", rr.Code, got)
	}
	if !eng.Status().BurstActive {
		t.Error("test backfire did not arm the burst")
	}

	srv, eng = newTestServer()
	rr = doJSON(t, srv.Handler(), http.MethodGet, "/api/test/crackle", &got)
	if rr.Code != http.StatusOK || !got.Triggered {
		t.Errorf("crackle trigger: code=%d body=%+v", rr.Code, got)
	}
	if !eng.Status().BurstActive {
		t.Error("test crackle did not arm the burst")
	}
}

func TestEffectToggleEndpoint(t *testing.T) {
	srv, eng := newTestServer()
	h := srv.Handler()

	var got struct {
		Enabled bool   `json:"enabled"`
		Error   string `json:"error"`
	}
	rr := doJSON(t, h, http.MethodGet, "/api/effects/backfire/off", &got)
	if rr.Code != http.StatusOK || got.Enabled || got.Error != "" {
		t.Errorf("disable backfire: code=%d body=%+v", rr.Code, got)
	}
	if eng.Effects.Backfire {
		t.Error("backfire still enabled after toggle")
	}

	rr = doJSON(t, h, http.MethodGet, "/api/effects/backfire/on", &got)
	if rr.Code != http.StatusOK || !got.Enabled {
		t.Errorf("enable backfire: code=%d body=%+v", rr.Code, got)
	}
	if !eng.Effects.Backfire {
		t.Error("backfire not re-enabled")
	}

	rr = doJSON(t, h, http.MethodGet, "/api/effects/afterburner/on", &got)
	if rr.Code != http.StatusBadRequest || got.Error == "" {
		t.Errorf("unknown effect: code=%d body=%+v", rr.Code, got)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/effects/backfire/maybe", &got)
	if rr.Code != http.StatusNotFound {
		t.Errorf("bad route: code=%d", rr.Code)
	}
}

func TestThresholdEndpoint(t *testing.T) {
	srv, eng := newTestServer()
	h := srv.Handler()

	var got struct {
		Param string `json:"param"`
		Value int    `json:"value"`
		Error string `json:"error"`
	}
	rr := doJSON(t, h, http.MethodGet, "/api/threshold?param=rpmThreshold&value=45", &got)
	if rr.Code != http.StatusOK || got.Param != "rpmThreshold" || got.Value != 45 {
		t.Errorf("set threshold: code=%d body=%+v", rr.Code, got)
	}
	if eng.Effects.RPMFlickerStartPct != 45 {
		t.Errorf("rpmThreshold = %d, want 45", eng.Effects.RPMFlickerStartPct)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/threshold?param=brakeMax&value=-35", &got)
	if rr.Code != http.StatusOK || eng.Effects.BrakeTriggerMax != -35 {
		t.Errorf("negative threshold: code=%d BrakeTriggerMax=%d", rr.Code, eng.Effects.BrakeTriggerMax)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/threshold?param=warp&value=9", &got)
	if rr.Code != http.StatusBadRequest || got.Error == "" {
		t.Errorf("unknown param: code=%d body=%+v", rr.Code, got)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/threshold?param=brakeMax&value=lots", &got)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("non-integer value: code=%d", rr.Code)
	}
}

func TestCalibrationFlow(t *testing.T) {
	srv, eng := newTestServer()
	h := srv.Handler()

	var stepResp struct {
		Step     int    `json:"step"`
		StepName string `json:"stepName"`
	}
	doJSON(t, h, http.MethodGet, "/api/calibrate/status", &stepResp)
	if stepResp.StepName != "idle" {
		t.Fatalf("initial step = %q, want idle", stepResp.StepName)
	}

	rr := doJSON(t, h, http.MethodGet, "/api/calibrate/start", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("start: code=%d", rr.Code)
	}
	doJSON(t, h, http.MethodGet, "/api/calibrate/status", &stepResp)
	if stepResp.StepName != "neutral" {
		t.Fatalf("step after start = %q, want neutral", stepResp.StepName)
	}

	// Captures read whatever pulse width is current at request time.
	var capResp struct {
		Captured bool   `json:"captured"`
		Value    uint16 `json:"value"`
		Error    string `json:"error"`
	}

	// Out-of-order capture is the client's fault.
	rr = doJSON(t, h, http.MethodGet, "/api/calibrate/capture/brake", &capResp)
	if rr.Code != http.StatusBadRequest || capResp.Captured {
		t.Errorf("out-of-order capture: code=%d body=%+v", rr.Code, capResp)
	}

	for _, step := range []struct {
		name  string
		width uint16
	}{
		{"neutral", 1520},
		{"throttle", 1980},
		{"brake", 1050},
	} {
		eng.Pulse().Store(step.width)
		rr = doJSON(t, h, http.MethodGet, "/api/calibrate/capture/"+step.name, &capResp)
		if rr.Code != http.StatusOK || !capResp.Captured || capResp.Value != step.width {
			t.Fatalf("capture %s: code=%d body=%+v", step.name, rr.Code, capResp)
		}
	}

	doJSON(t, h, http.MethodGet, "/api/calibrate/status", &stepResp)
	if stepResp.StepName != "complete" {
		t.Errorf("step after brake = %q, want complete", stepResp.StepName)
	}

	var results struct {
		Min        uint16 `json:"min"`
		Max        uint16 `json:"max"`
		Neutral    uint16 `json:"neutral"`
		NeutralMin uint16 `json:"neutral_min"`
		NeutralMax uint16 `json:"neutral_max"`
	}
	doJSON(t, h, http.MethodGet, "/api/calibrate/results", &results)
	if results.Neutral != 1520 || results.Max != 1980 || results.Min != 1050 {
		t.Errorf("results = %+v", results)
	}
	if results.NeutralMin != 1520-engine.NeutralDeadband || results.NeutralMax != 1520+engine.NeutralDeadband {
		t.Errorf("neutral window = %d-%d", results.NeutralMin, results.NeutralMax)
	}
}
