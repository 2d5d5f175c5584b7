// Package remote talks to the measurement server.
//
// A Dialer produces a Session; the SFTP implementation authenticates with a
// password over SSH and checks host keys against a known_hosts file when
// one is configured. Every call on a session is bounded by a timeout so a
// silent server cannot hold a sync cycle forever.
//
// Failures are reported with three sentinel errors:
//
//   - ErrConnect: the session could not be established;
//   - ErrDirectoryNotFound: the requested directory is absent or forbidden;
//   - ErrTransfer: any other failure on an established session, including
//     timeouts. The session must be closed and dialed again.
package remote
