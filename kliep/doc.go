// Package kliep fits a Gaussian-kernel density-ratio model between two
// particle clouds via the Kullback-Leibler Importance Estimation Procedure,
// and exposes the fitted ratio's supremum for tolerance selection.
package kliep
