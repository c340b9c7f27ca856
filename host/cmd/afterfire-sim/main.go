// afterfire-sim runs the effect engine on the host with a synthetic PWM
// source and the HTTP control API, for bench testing the control surface
// and effect tuning without hardware.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"afterfire/engine"
	"afterfire/server"
	"afterfire/settings"
)

var (
	listen = flag.String("listen", ":8080", "HTTP listen address")
	leds   = flag.Int("leds", 1, "Number of simulated LEDs")
	drive  = flag.Bool("drive", true, "Feed a synthetic throttle waveform")
)

func main() {
	flag.Parse()

	engine.SetDebugWriter(func(s string) { fmt.Println(s) })

	eng := engine.New(*leds, nil)

	store := settings.NewStore(&settings.MemMedium{})
	rec, err := store.Load()
	if err != nil {
		fmt.Println("settings: defaults in use:", err)
	}
	eng.Profile = rec.Profile
	eng.Effects = rec.Effects
	eng.OnSave = func(p engine.CalibrationProfile, fx engine.EffectConfig) error {
		rec.Profile = p
		rec.Effects = fx
		return store.Save(&rec)
	}

	srv := server.New(eng)
	go func() {
		fmt.Println("Control API on", *listen)
		if err := http.ListenAndServe(*listen, srv.Handler()); err != nil {
			fmt.Fprintln(os.Stderr, "http:", err)
			os.Exit(1)
		}
	}()

	if *drive {
		go drivePulse(eng.Pulse())
	}

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for now := range ticker.C {
		srv.Advance(now)
	}
}

// drivePulse plays a looped throttle scenario into the pulse cell, the
// way the edge interrupt would on hardware: idle, a run up to full
// throttle, a sharp release (backfire), then a stab of brake (crackle).
func drivePulse(cell *engine.PulseCell) {
	profile := engine.DefaultProfile()
	segments := []struct {
		from, to uint16
		dur      time.Duration
	}{
		{profile.NeutralPulse, profile.NeutralPulse, 3 * time.Second},
		{profile.NeutralPulse, profile.MaxPulse, 2 * time.Second},
		{profile.MaxPulse, profile.MaxPulse, time.Second},
		{profile.NeutralPulse, profile.NeutralPulse, 2 * time.Second},
		{profile.NeutralPulse, profile.MinPulse, 300 * time.Millisecond},
		{profile.MinPulse, profile.NeutralPulse, time.Second},
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		for _, seg := range segments {
			start := time.Now()
			for range ticker.C {
				frac := float64(time.Since(start)) / float64(seg.dur)
				if frac >= 1 {
					cell.Store(seg.to)
					break
				}
				w := int(seg.from) + int(frac*float64(int(seg.to)-int(seg.from)))
				cell.Store(uint16(w))
			}
		}
	}
}
