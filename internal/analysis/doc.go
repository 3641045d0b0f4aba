// Package analysis extracts modal properties from oscillator runs.
//
//   - [DominantFrequency]: strongest spectral peak of a sampled series
//   - [NaturalFrequencies], [DampingRatios]: the per-axis values implied
//     by the oscillator dictionary
//   - [SpringReference], [MaxDeviation]: closed-form damped spring motion
//     and the distance of a sampled trajectory from it
//
// Comparing the two checks a trajectory against its parameters:
//
//	f, _ := analysis.DominantFrequency(xs, interval)
//	fn := analysis.NaturalFrequencies(props)
package analysis
