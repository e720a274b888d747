// Package cli is the interactive front end of the CryptoPass client.
//
// It signs in with the wallet, keeps the decrypted vault in memory, pushes
// every change to the document store and mirrors the vault to the
// extension over the bridge. Share requests and notifications are handled
// from the same prompt.
package cli
