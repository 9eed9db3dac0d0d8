// Package analysis post-processes recorded telemetry.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of a trace,
//     e.g. rpm hunting around the rev limiter
//   - [Summarize]: min, max, mean, deviation and 95th percentile of a trace
//   - [Events]: discrete transitions such as shifts, limiter and damage
//
// # Usage
//
//	rpm := analysis.Field(tels, analysis.RPM)
//	f, _ := analysis.DominantFrequency(rpm, dt)
package analysis
