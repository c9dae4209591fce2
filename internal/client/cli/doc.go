// Package cli provides the interactive medrecords command-line client.
//
// The App owns an injected session.Session and renders the front-end's
// views as REPL commands. Navigation goes through the navigation package:
// "home" lands on the dashboard for the signed-in role, and every resource
// command runs the same route guard as the dashboard that owns it.
//
// Typical flow: the stored session is resolved in the background while the
// prompt shows "(loading ...)"; the user logs in, lands on a dashboard and
// works with patients, cases, appointments and prescriptions.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
