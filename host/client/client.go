// Typed HTTP client for the afterfire control API.
package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to one device's control API.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for a device base URL such as
// "http://192.168.4.1".
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

// Status mirrors the /api/status response.
type Status struct {
	PulseWidth int    `json:"pwm"`
	Throttle   int    `json:"throttle"`
	Burst      bool   `json:"burst"`
	Uptime     string `json:"uptime"`
}

// CalibrationResults mirrors the /api/calibrate/results response.
type CalibrationResults struct {
	Min        uint16 `json:"min"`
	Max        uint16 `json:"max"`
	Neutral    uint16 `json:"neutral"`
	NeutralMin uint16 `json:"neutral_min"`
	NeutralMax uint16 `json:"neutral_max"`
}

// Status fetches the live status snapshot.
func (c *Client) Status() (Status, error) {
	var st Status
	return st, c.get("/api/status", &st)
}

// SetEffect toggles one effect by wire name.
func (c *Client) SetEffect(name string, enabled bool) error {
	state := "off"
	if enabled {
		state = "on"
	}
	return c.get("/api/effects/"+url.PathEscape(name)+"/"+state, nil)
}

// SetThreshold updates one sensitivity threshold.
func (c *Client) SetThreshold(param string, value int) error {
	q := url.Values{"param": {param}, "value": {strconv.Itoa(value)}}
	return c.get("/api/threshold?"+q.Encode(), nil)
}

// TestBackfire fires the fixed backfire test burst.
func (c *Client) TestBackfire() error {
	return c.get("/api/test/backfire", nil)
}

// TestCrackle fires the fixed brake-crackle test burst.
func (c *Client) TestCrackle() error {
	return c.get("/api/test/crackle", nil)
}

// CalibrateStart begins a calibration session.
func (c *Client) CalibrateStart() error {
	return c.get("/api/calibrate/start", nil)
}

// CalibrateStatus returns the session's current step name.
func (c *Client) CalibrateStatus() (string, error) {
	var resp struct {
		StepName string `json:"stepName"`
	}
	err := c.get("/api/calibrate/status", &resp)
	return resp.StepName, err
}

// Capture records the current pulse width for the named step and returns
// the captured value.
func (c *Client) Capture(step string) (uint16, error) {
	var resp struct {
		Captured bool   `json:"captured"`
		Value    uint16 `json:"value"`
	}
	err := c.get("/api/calibrate/capture/"+url.PathEscape(step), &resp)
	return resp.Value, err
}

// Results fetches the calibration profile in effect.
func (c *Client) Results() (CalibrationResults, error) {
	var res CalibrationResults
	return res, c.get("/api/calibrate/results", &res)
}

// get issues a request and decodes the JSON body into out (if non-nil).
// Non-2xx responses surface the API's error field.
func (c *Client) get(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", http.MethodGet, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
