// Package waitlistcard renders shareable membership cards for waitlist
// entries as SVG images.
package waitlistcard

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

// Renderer produces SVG card images for waitlist entries.
type Renderer struct {
	appName string
	iconURL string
	tmpl    *template.Template
}

// NewRenderer creates a card renderer branded with appName and iconURL.
func NewRenderer(appName, iconURL string) (*Renderer, error) {
	tmpl, err := template.New("card").Parse(cardTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse card template: %w", err)
	}
	return &Renderer{
		appName: appName,
		iconURL: iconURL,
		tmpl:    tmpl,
	}, nil
}

type cardData struct {
	AppName     string
	IconURL     string
	DisplayName string
	Handle      string
	CardNumber  string
	PfpURL      string
}

// Render writes an SVG card for entry.
func (r *Renderer) Render(entry *waitlist.Entry) ([]byte, error) {
	displayName := entry.DisplayName
	if displayName == "" {
		displayName = entry.Username
	}

	data := cardData{
		AppName:     r.appName,
		IconURL:     r.iconURL,
		DisplayName: escape(displayName),
		Handle:      escape("@" + entry.Username),
		CardNumber:  fmt.Sprintf("#%04d", entry.CardNumber),
		PfpURL:      escape(entry.PfpURL),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render card: %w", err)
	}
	return buf.Bytes(), nil
}

// escape sanitizes user supplied text for embedding in SVG markup.
func escape(s string) string {
	var buf bytes.Buffer
	template.HTMLEscape(&buf, []byte(s))
	return buf.String()
}

const cardTemplate = `<svg width="600" height="340" viewBox="0 0 600 340" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
  <defs>
    <linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0%" stop-color="#1a1a2e"/>
      <stop offset="100%" stop-color="#16213e"/>
    </linearGradient>
    <clipPath id="pfp-clip">
      <circle cx="84" cy="150" r="44"/>
    </clipPath>
  </defs>
  <rect width="600" height="340" rx="24" fill="url(#bg)"/>
  <rect x="1" y="1" width="598" height="338" rx="23" fill="none" stroke="#3d3d5c" stroke-width="2"/>
  {{if .IconURL}}<image x="40" y="36" width="32" height="32" xlink:href="{{.IconURL}}"/>{{end}}
  <text x="84" y="59" font-family="Helvetica, Arial, sans-serif" font-size="20" font-weight="bold" fill="#ffffff">{{.AppName}}</text>
  <text x="560" y="59" text-anchor="end" font-family="Helvetica, Arial, sans-serif" font-size="14" fill="#8888aa" letter-spacing="2">WAITLIST MEMBER</text>
  {{if .PfpURL}}<image x="40" y="106" width="88" height="88" xlink:href="{{.PfpURL}}" clip-path="url(#pfp-clip)"/>{{else}}<circle cx="84" cy="150" r="44" fill="#3d3d5c"/>{{end}}
  <text x="152" y="144" font-family="Helvetica, Arial, sans-serif" font-size="28" font-weight="bold" fill="#ffffff">{{.DisplayName}}</text>
  <text x="152" y="174" font-family="Helvetica, Arial, sans-serif" font-size="18" fill="#8888aa">{{.Handle}}</text>
  <text x="40" y="282" font-family="Helvetica, Arial, sans-serif" font-size="14" fill="#8888aa" letter-spacing="2">CARD NUMBER</text>
  <text x="40" y="316" font-family="Courier, monospace" font-size="32" font-weight="bold" fill="#7f5af0">{{.CardNumber}}</text>
</svg>
`
