package state

import "math"

const (
	minFontSize = 0.5
	maxFontSize = 3.0
)

// Settings are the reader preferences shared with the server.
type Settings struct {
	FontSize   float64 `json:"fontSize"`
	AllowLinks bool    `json:"allowLinks"`
	InkMode    bool    `json:"inkMode"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{FontSize: 1.0, InkMode: true}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Larger grows the font by a fifth, up to 3em.
func (s Settings) Larger() Settings {
	s.FontSize = roundTenth(math.Min(s.FontSize*1.2, maxFontSize))
	return s
}

// Smaller shrinks the font by a fifth, down to 0.5em.
func (s Settings) Smaller() Settings {
	s.FontSize = roundTenth(math.Max(s.FontSize*0.8, minFontSize))
	return s
}

// ToggleLinks flips whether links in articles may be followed.
func (s Settings) ToggleLinks() Settings {
	s.AllowLinks = !s.AllowLinks
	return s
}

// ToggleInkMode flips the e-ink display adaptation flag.
func (s Settings) ToggleInkMode() Settings {
	s.InkMode = !s.InkMode
	return s
}
