// Package robust implements location and scale estimators that resist
// outliers: trimmed and winsorized means, the median, Hodges–Lehmann, Huber
// and Tukey biweight M-estimators, MAD, Rousseeuw–Croux Sn and Qn, and the
// biweight midvariance.
//
// Every estimator reads its input without modifying it and fails with
// core.ErrInsufficientData below its minimum sample size. Scale estimators
// return 0 for a constant sample.
//
// Hodges–Lehmann, Sn and Qn use the direct O(n²) pairwise definitions. They
// are meant for interactive sample sizes (n up to a couple of thousand) and
// do not scale beyond that.
package robust
