package preview

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 24.0
)

func fontSize(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens label to what fits in width at the given font size.
func truncate(label string, width, size float64) string {
	maxChars := max(int(width*fontWidthRatio/(size*fontCharWidth)), 3)
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
