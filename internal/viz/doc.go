// Package viz renders convergence reports and trajectory charts for the
// terminal.
//
//   - [RenderReport]: the tolerance sweep table and the analytic vs
//     numeric comparison, styled with lipgloss
//   - [SweepChart], [SeriesChart]: asciigraph line charts
//   - [Canvas]: Braille pixel canvas used for phase portraits
//   - [Live]: bubbletea model that advances a system frame by frame
//
// Styling follows the selected [Theme]; when stdout is not a terminal the
// styles degrade to plain text.
package viz
