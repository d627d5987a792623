package model

import (
	"fmt"
	"strings"
)

// KindAliases maps the node type names emitted by host toolkit adapters to
// the three snapshot variants.
var KindAliases = map[string]Kind{
	"container":      KindContainer,
	"view":           KindContainer,
	"group":          KindContainer,
	"window":         KindContainer,
	"boundary":       KindBoundary,
	"screen":         KindBoundary,
	"modal":          KindBoundary,
	"viewcontroller": KindBoundary,
	"text":           KindText,
	"label":          KindText,
	"txt":            KindText,
}

// ParseKind converts a toolkit type name to a Kind. Unknown names are an error.
func ParseKind(name string) (Kind, error) {
	if k, ok := KindAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown node kind %q", name)
}

// UnmarshalText accepts any alias listed in KindAliases.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
