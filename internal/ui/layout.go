package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the results pane is
	// stacked under the form instead of beside it.
	LayoutCompactWidth = 100

	// formMinWidth and formMaxWidth bound the form column in wide layouts.
	formMinWidth = 40
	formMaxWidth = 64
)

// Results pane limits.
const (
	// resultsMinHeight is the smallest results viewport in compact mode.
	resultsMinHeight = 6

	// chromeHeight is the header plus footer.
	chromeHeight = 2
)
