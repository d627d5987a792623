package model

// LabelCandidate is an accepted, geometry-qualified text element ready for
// the annotation artifact. Candidates are produced once per scan and never
// modified afterwards.
type LabelCandidate struct {
	Key            string    `yaml:"key"                json:"key"`
	Text           string    `yaml:"text"               json:"text"`
	Rect           Rect      `yaml:"rect"               json:"rect"`
	Color          Color     `yaml:"color"              json:"color"`
	Font           Font      `yaml:"font,omitempty"     json:"font,omitempty"`
	Align          TextAlign `yaml:"align,omitempty"    json:"align,omitempty"`
	IsControlLabel bool      `yaml:"control,omitempty"  json:"control,omitempty"`
	Path           string    `yaml:"path,omitempty"     json:"path,omitempty"`
}
