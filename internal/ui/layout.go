package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header abbreviates
	// status labels and hides the total value.
	LayoutCompactWidth = 110

	// LayoutExtraWideWidth is the threshold above which the table gets a
	// larger share of the screen.
	LayoutExtraWideWidth = 160
)

// chromeHeight is the number of lines above the panes: header, command
// bar and notice line.
const chromeHeight = 3

// Order table column widths. Customer and item share what is left.
const (
	colID     = 6
	colQty    = 4
	colValue  = 16
	colRegion = 12
	colStatus = 16
	colGaps   = 7
)
