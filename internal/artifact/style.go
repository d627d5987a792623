package artifact

import "fmt"

// Position is the CSS class that places the screenshot on the page.
type Position string

const (
	PositionCenter  Position = "center"
	PositionTopLeft Position = "topleft"
)

// ParsePosition accepts "center", "topleft" and "top-left".
func ParsePosition(s string) (Position, error) {
	switch s {
	case "center", "":
		return PositionCenter, nil
	case "top-left", "topleft":
		return PositionTopLeft, nil
	}
	return PositionCenter, fmt.Errorf("unknown preview position: %q (expected center or topleft)", s)
}

// Style holds the presentation settings of the HTML artifact.
type Style struct {
	Position         Position
	DeviceBezels     bool
	LabelBorders     bool
	LabelBorderColor string
	ExpandToControl  bool
	IncludeWebFonts  bool
	WebFonts         string
	FontStyles       string
	BodyStyles       string
	FontClasses      map[string]string // font name -> space separated CSS classes
}

// DefaultStyle returns the stock presentation.
func DefaultStyle() Style {
	return Style{
		Position:         PositionCenter,
		DeviceBezels:     true,
		LabelBorders:     true,
		LabelBorderColor: "#0a3679",
		IncludeWebFonts:  true,
		WebFonts:         DefaultWebFonts,
		FontStyles:       DefaultFontStyles,
		BodyStyles:       DefaultBodyStyles,
		FontClasses:      DefaultFontClasses(),
	}
}

// DefaultFontClasses maps the system UI font faces to the classes declared
// in DefaultFontStyles.
func DefaultFontClasses() map[string]string {
	weights := []struct{ face, class string }{
		{"UltraLight", "ultralight"},
		{"Thin", "thin"},
		{"Light", "light"},
		{"Regular", "regular"},
		{"Medium", "medium"},
		{"Semibold", "semibold"},
		{"Bold", "bold"},
		{"Heavy", "heavy"},
		{"Black", "black"},
	}
	m := make(map[string]string, 2*len(weights))
	for _, w := range weights {
		m[".SFUI-"+w.face] = "system-font " + w.class
		m[".SFUI-"+w.face+"Italic"] = "system-font " + w.class + " italic"
	}
	return m
}

const webFontURL = "https://applesocial.s3.amazonaws.com/assets/styles/fonts/sanfrancisco/sanfranciscodisplay-%s-webfont.woff"

// DefaultWebFonts declares the San Francisco web fonts so artifacts render
// close to the device on other platforms.
var DefaultWebFonts = func() string {
	faces := []struct {
		title, file string
		weight      int
	}{
		{"Ultra Light", "ultralight", 100},
		{"Thin", "thin", 200},
		{"Regular", "regular", 400},
		{"Medium", "medium", 500},
		{"Semi Bold", "semibold", 600},
		{"Bold", "bold", 700},
	}
	var s string
	for i, f := range faces {
		if i > 0 {
			s += "\n"
		}
		s += fmt.Sprintf("    /** %s */\n    @font-face {\n      font-family: \"San Francisco\";\n      font-weight: %d;\n      src: url(\""+webFontURL+"\");\n    }\n",
			f.title, f.weight, f.file)
	}
	return s
}()

// DefaultFontStyles declares the classes referenced by DefaultFontClasses.
const DefaultFontStyles = `    .system-font { font-family: -apple-system, San Francisco, BlinkMacSystemFont, sans-serif; }
    .ultralight { font-weight: 100; }
    .thin { font-weight: 200; }
    .light { font-weight: 300; }
    .regular { font-weight: 400; }
    .medium { font-weight: 500; }
    .semibold { font-weight: 600; }
    .bold { font-weight: 700; }
    .heavy { font-weight: 800; }
    .black { font-weight: 900; }
    .italic { font-style: italic; }
`

// DefaultBodyStyles lays out the page, the overlay divs and the position
// classes.
const DefaultBodyStyles = `    body {
        padding: 0;
        margin: 0;
        background-color: #ddd;
        font-family: "San Francisco";
        line-height: 125%;
    }
    .translatable {
        position: absolute;
        display: table;
    }
    .vertical-center {
        vertical-align: middle;
        display: table-cell;
    }
    .shadow {
        box-shadow: 0rem 0.4rem 0.6rem rgba(0, 0, 30, 0.5);
    }
    .center {
        margin: 0;
        position: absolute;
        top: 50%;
        left: 50%;
        -ms-transform: translate(-50%, -50%);
        transform: translate(-50%, -50%);
    }
    .topleft, .top-left {
        position: absolute;
        top: 0;
        left: 0;
    }
`
