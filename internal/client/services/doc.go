// Package services holds the client application services: vault
// synchronisation against the remote document store, wallet login, the
// share protocol and local notifications.
package services
