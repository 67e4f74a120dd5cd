// Package distribution provides closed-form numeric approximations of the
// standard normal, Student t, chi-square, gamma and beta distributions used
// by the estimation core.
//
// The normal and t quantiles are fast rational/series approximations
// (Abramowitz–Stegun erf, Beasley–Springer–Moro, Cornish–Fisher). The
// chi-square, gamma, beta and t CDFs are evaluated through the regularized
// incomplete gamma and beta integrals of gonum's mathext package.
//
// Out-of-domain arguments fail with core.ErrInvalidParameter instead of
// returning NaN.
package distribution
