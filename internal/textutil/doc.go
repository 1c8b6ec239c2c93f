// Package textutil provides small text helpers shared across packages.
package textutil
