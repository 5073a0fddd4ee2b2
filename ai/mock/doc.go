// Package mock provides deterministic test doubles for the ai interfaces.
// No network access is performed; vectors are derived from text hashes.
package mock
