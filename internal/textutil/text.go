package textutil

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding/unicode"
)

// DetectBinary treats NUL bytes or a high share of control bytes as binary.
func DetectBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	ctl := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b == 9 || b == 10 || b == 13 {
			continue
		}
		if b < 32 || b == 127 {
			ctl++
		}
	}
	ratio := float64(ctl) / float64(len(sample))
	return ratio > 0.30
}

// Decode returns data as UTF-8 text with a leading BOM removed. Invalid
// sequences become U+FFFD, the same as a Node.js stdout read.
func Decode(data []byte) string {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// Truncate shortens s to at most width columns, marking the cut with "...".
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
