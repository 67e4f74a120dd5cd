// Package meta pools study-level effects: inverse-variance fixed effect,
// DerSimonian–Laird random effects, heterogeneity, Egger's regression test,
// Rosenthal's fail-safe N and leave-one-out sensitivity.
//
// Every exported operation drops unusable studies (non-finite effect, SE
// not finite and positive) and fails with core.ErrInsufficientStudies when
// fewer than two remain.
package meta
