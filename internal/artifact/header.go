package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/rigi-cli/internal/marker"
)

const (
	headerBegin = "<!-- BEGIN RIGI_RAW_HEADER"
	headerEnd   = "END RIGI_RAW_HEADER -->"
)

// ErrNoHeader is returned when a document has no raw header block.
var ErrNoHeader = errors.New("no RIGI_RAW_HEADER block found")

// Header is the decoded raw header of an artifact.
type Header struct {
	Texts           []string `yaml:"texts"            json:"texts"`
	Dependencies    []string `yaml:"dependencies"     json:"dependencies"`
	DateCreated     string   `yaml:"date_created"     json:"dateCreated"`
	SignatureFormat int      `yaml:"signature_format" json:"signatureFormat"`
	GUID            string   `yaml:"guid"             json:"guid"`
}

// ParseHeader extracts and decodes the raw header from an HTML document.
func ParseHeader(html string) (*Header, error) {
	start := strings.Index(html, headerBegin)
	if start < 0 {
		return nil, ErrNoHeader
	}
	body := html[start+len(headerBegin):]
	end := strings.Index(body, headerEnd)
	if end < 0 {
		return nil, ErrNoHeader
	}

	var h Header
	if err := json.Unmarshal([]byte(strings.TrimSpace(body[:end])), &h); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	return &h, nil
}

// Keys returns the resource keys listed in the header, in order.
func (h *Header) Keys() []string {
	keys := make([]string, 0, len(h.Texts))
	for _, t := range h.Texts {
		if m, ok := marker.ExtractKey(t); ok {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// Created parses DateCreated as Unix seconds.
func (h *Header) Created() (time.Time, error) {
	sec, err := strconv.ParseInt(h.DateCreated, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dateCreated %q: %w", h.DateCreated, err)
	}
	return time.Unix(sec, 0), nil
}
