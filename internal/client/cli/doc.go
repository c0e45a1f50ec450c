// Package cli provides the interactive client shell.
//
// It wires configuration, the local key-value store, the session, the
// authenticated HTTP client, the offline queue and the network monitor, then
// runs a REPL in place of application screens. The session is restored on
// start and queued requests are replayed whenever connectivity returns.
//
// Commands:
//   - register, login, logout, whoami
//   - status: connectivity, session and queue summary
//   - get|post|put|patch|delete <path> [json]: send a request; mutating
//     requests are queued while offline
//   - queue, flush, clearqueue: inspect, replay or drop queued requests
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
