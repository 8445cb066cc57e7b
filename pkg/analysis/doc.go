// Package analysis computes structural statistics of connectivity graphs:
// vertex and edge counts, the degree histogram, the complementary
// cumulative degree distribution and a power-law exponent estimate.
//
// The exponent is fitted by ordinary least squares on (log k, log CCDF(k))
// over the distinct non-zero degrees k; for a distribution P(k) ~ k^-gamma
// the CCDF decays as k^(1-gamma), so gamma = 1 - slope.
package analysis
