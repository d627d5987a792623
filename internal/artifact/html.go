// Package artifact builds the HTML annotation document that pairs a
// screenshot with the translatable texts found on it, plus an optional
// annotated preview image.
package artifact

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/model"
)

// SignatureFormat is the header format version understood by the importer.
const SignatureFormat = 3

// Document is everything needed to render one artifact.
type Document struct {
	BaseName    string
	CreatedAt   time.Time
	GUID        string
	Size        model.Size // screenshot size in points
	HasTopNotch bool
	Labels      []model.LabelCandidate
}

const (
	notchWidth  = 150
	notchBorder = 30

	bezelNotch   = "border: 20px solid black; border-radius: 60px;"
	bezelClassic = "border: 20px solid black; border-width: 100px 20px; border-radius: 50px;"
)

// Render produces the complete HTML document.
func Render(doc Document, style Style) (string, error) {
	header, err := renderHeader(doc)
	if err != nil {
		return "", err
	}

	bezel, notch := "", ""
	if style.DeviceBezels {
		bezel = bezelClassic
		if doc.HasTopNotch {
			bezel = bezelNotch
			notchLeft := (doc.Size.Width - notchWidth - 2*notchBorder) / 2
			notch = fmt.Sprintf(`<div style="border: 30px solid black; border-radius: 20px; position: absolute; width: 150px; height: 0px; top: -30px; left: %dpx;"></div>`, notchLeft)
		}
	}

	webFonts := ""
	if style.IncludeWebFonts {
		webFonts = style.WebFonts
	}

	divs := make([]string, 0, len(doc.Labels))
	for _, l := range doc.Labels {
		divs = append(divs, renderDiv(l, style))
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(header)
	b.WriteString("<html>\n<head>\n  <title>RIGI Screenshot</title>\n  <style>\n")
	b.WriteString(webFonts)
	b.WriteString("\n")
	b.WriteString(style.FontStyles)
	b.WriteString("\n")
	b.WriteString(style.BodyStyles)
	b.WriteString("\n  </style>\n</head>\n<meta charset=\"UTF-8\">\n<body>\n")
	fmt.Fprintf(&b, `  <div class="%s shadow" style="width: %dpx; height: %dpx; overflow: hidden; background: url(%s) no-repeat left top; background-size: %dpx; %s">`,
		style.Position, doc.Size.Width, doc.Size.Height, ImageRef(doc.BaseName), doc.Size.Width, bezel)
	b.WriteString("\n")
	b.WriteString(strings.Join(divs, "\n"))
	b.WriteString("\n")
	b.WriteString(notch)
	b.WriteString("\n  </div>\n\n</body>\n</html>\n")
	return b.String(), nil
}

// renderHeader writes the machine-readable comment block. Values go through
// encoding/json, which escapes < and > so the comment can never be closed
// early.
func renderHeader(doc Document) (string, error) {
	texts := make([]string, 0, len(doc.Labels))
	for _, l := range doc.Labels {
		texts = append(texts, marker.HeaderText(l.Key))
	}
	textsJSON, err := json.Marshal(texts)
	if err != nil {
		return "", fmt.Errorf("failed to encode header texts: %w", err)
	}
	depsJSON, err := json.Marshal([]string{ImageRef(doc.BaseName)})
	if err != nil {
		return "", fmt.Errorf("failed to encode header dependencies: %w", err)
	}
	guidJSON, err := json.Marshal(doc.GUID)
	if err != nil {
		return "", fmt.Errorf("failed to encode header guid: %w", err)
	}

	var b strings.Builder
	b.WriteString(headerBegin + " {\n")
	fmt.Fprintf(&b, "    \"texts\":%s,\n", textsJSON)
	fmt.Fprintf(&b, "    \"dependencies\":%s,\n", depsJSON)
	fmt.Fprintf(&b, "    \"dateCreated\":\"%d\",\n", doc.CreatedAt.Unix())
	fmt.Fprintf(&b, "    \"signatureFormat\":%d,\n", SignatureFormat)
	fmt.Fprintf(&b, "    \"guid\":%s\n", guidJSON)
	b.WriteString("} " + headerEnd + "\n")
	return b.String(), nil
}

func renderDiv(l model.LabelCandidate, style Style) string {
	align := l.Align.CSS()
	if style.ExpandToControl && l.IsControlLabel {
		align = "center"
	}

	inset := 0
	if style.LabelBorders {
		inset = 2
	}

	r := l.Rect
	divStyle := fmt.Sprintf("left: %dpx; top: %dpx; min-width: %dpx; min-height: %dpx; color: %s; font-size: %dpx; text-align: %s; ",
		int(r.X), int(r.Y), int(r.Width)-inset, int(r.Height)-inset, HexColor(l.Color), int(l.Font.PointSize), align)
	if style.LabelBorders {
		divStyle += fmt.Sprintf("border: 1px solid %s; ", style.LabelBorderColor)
	}

	spanClass := "vertical-center"
	if class, ok := style.FontClasses[l.Font.Name]; ok {
		spanClass += " " + class
	} else {
		divStyle += fmt.Sprintf("font-family: '%s';", attrEscaper.Replace(l.Font.Name))
	}

	return fmt.Sprintf(`<div class="translatable" data-rg-resourceids="" data-rg-signatures="" style="%s"><span class="%s">%s</span></div>`,
		divStyle, spanClass, EscapeText(l.Text))
}

// attrEscaper makes a value safe inside a double-quoted attribute that
// itself quotes with single quotes.
var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `'`, "&#39;", `<`, "&lt;", `>`, "&gt;")

var newlines = regexp.MustCompile(`\r\n|\n\r|\r|\n`)

// EscapeText prepares label text for the overlay span: angle brackets are
// escaped and every line break becomes <br>.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return newlines.ReplaceAllString(s, "<br>")
}

// HexColor formats c as lowercase #rrggbb.
func HexColor(c model.Color) string {
	return c.Hex()
}
