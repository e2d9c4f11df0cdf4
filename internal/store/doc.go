// Package store defines the persistence interfaces consumed by the service
// layer, along with the sentinel errors and transaction helper shared by all
// implementations. Concrete implementations live under internal/platform.
package store
