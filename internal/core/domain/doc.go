// Package domain defines the core business entities for brokerauth.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: The renewable access/refresh token pair
//   - ClientIdentity: The per-deployment OAuth app identity
//   - ScheduleConfig: The daily renewal trigger and retry policy
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
