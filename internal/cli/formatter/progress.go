package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderAttendance renders how many of total children are in, as a bar
// like [████░░░░] 4/8 inne. An empty department renders without a bar.
func RenderAttendance(in, total, width int) string {
	if total <= 0 {
		return Dim("ingen barn")
	}
	if in < 0 {
		in = 0
	}
	if in > total {
		in = total
	}
	if width < 2 {
		width = 2
	}

	filled := in * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if in == 0 {
		style = StyleDim
	}
	return fmt.Sprintf("[%s] %d/%d inne", style.Render(bar), in, total)
}
