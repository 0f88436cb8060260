// Package cli provides the interactive MedScribe command-line client.
//
// It wires configuration, the credential database, the API client, the
// domain services and the state store behind a small REPL. A session saved
// by an earlier run is restored at startup, so the user stays logged in
// until logout or until a token refresh fails. In the latter case the store
// prints a session-expired notice and the REPL falls back to the anonymous
// commands.
//
// Commands cover patients, encounters (audio upload, processing, SOAP
// notes, transcripts, document download), checklist templates, analytics
// and an ad-hoc request runner. Downloaded documents go to the configured
// export sink.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
