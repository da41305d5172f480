// Package cli provides the interactive job board terminal client.
//
// It wires a client runtime (config, session storage, HTTP client and
// services) to a read-eval-print loop. On start the stored session is
// validated with CheckAuth; afterwards the prompt shows who is signed in and
// the page the last redirect pointed at.
//
// Commands:
//   - register / login / logout
//   - whoami, check
//   - jobs [search], job <id>
//   - apply <id>, myapps, upload <path>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
