// Package doc implements the server configuration document: an Arma
// Reforger dedicated server config held in its encoded JSON form, with
// dot-path mutation, optional section toggling, import normalisation and
// schema validation.
//
// The document is kept as encoded JSON rather than a decoded map so that
// the key order of the originally imported file survives every edit and
// round-trips through export. All mutating methods return a new Document
// and never modify the receiver.
package doc
