// Package connect implements the credential form controller.
//
// A Connector owns the state behind the "connect to InfluxDB" screen: the
// three editable fields, the submission status shown to the user and the
// submit cycle that persists the credentials and then probes connectivity.
//
// # Submit cycle
//
//	Submit ──► save(normalized) ──ok──► probe ──ok──► StatusOK, OnConnected()
//	                │                      │
//	               err                    err
//	                ▼                      ▼
//	          StatusError            StatusError
//
// Collaborators are called from tea.Cmd functions and never touch controller
// state. Their results come back as messages that Update applies on the
// Bubble Tea goroutine, after checking the lifecycle token each result was
// started with. Once Unmount has been called no result is applied.
//
// The controller has no rendering of its own; the TUI reads State() and draws
// it. Tests drive it directly by running the returned commands and feeding
// their messages back into Update.
package connect
