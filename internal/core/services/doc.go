// Package services implements the driving port interfaces.
// Services contain the token lifecycle and renewal logic and
// orchestrate calls to driven ports (adapters).
package services
