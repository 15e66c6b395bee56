// Package database holds the user repository implementations: an in-memory
// store for development and tests, a SurrealDB store and a MongoDB store.
// All of them satisfy domain.UserRepository and are chosen by
// NewUserRepository from STORE_DRIVER.
package database
