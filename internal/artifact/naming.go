package artifact

import (
	"fmt"
	"path"
	"path/filepath"
	"time"
)

// ImageDir is the artifact-relative directory holding screenshots.
const ImageDir = "resources/img"

// BaseName names the nth artifact of a session, for example
// "1700000000_screen_001" or "rigi_screen_001" without timestamps.
func BaseName(seq int, t time.Time, timestamps bool) string {
	if timestamps {
		return fmt.Sprintf("%d_screen_%03d", t.Unix(), seq)
	}
	return fmt.Sprintf("rigi_screen_%03d", seq)
}

// ImageRef is the screenshot path as referenced from the HTML file.
func ImageRef(base string) string {
	return path.Join(ImageDir, base+".png")
}

// ImagePath is where the screenshot is written under outDir.
func ImagePath(outDir, base string) string {
	return filepath.Join(outDir, filepath.FromSlash(ImageDir), base+".png")
}

// PreviewPath is where the annotated preview is written under outDir.
func PreviewPath(outDir, base string) string {
	return filepath.Join(outDir, filepath.FromSlash(ImageDir), base+"_preview.png")
}

// HTMLPath is where the document is written under outDir.
func HTMLPath(outDir, base string) string {
	return filepath.Join(outDir, base+".html")
}
