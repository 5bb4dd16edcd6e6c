// Package tui implements the full-screen terminal interface of fluxvision.
//
// Built on Bubble Tea, it follows the Elm architecture: every screen is a
// value model with Update and View, and every network call is a tea.Cmd
// whose result comes back as a message.
//
// # Screens
//
//   - Landing: title and a prompt to connect
//   - Connect: URL, Org and Token fields driven by a connect.Connector.
//     Saving and the connectivity probe run in sequence; a successful probe
//     moves on to the workspace.
//   - Workspace: a bucket dropdown driven by a selector.List
//
// Leaving a screen unmounts its controller, so results that arrive after
// the switch are dropped rather than applied to a screen nobody sees.
//
// # Mouse
//
// The program runs with mouse cell motion enabled. Every left click is
// published on an interaction.Bus; an open dropdown listens on the bus and
// closes when the click falls outside its region. Regions are computed from
// the fixed layout of RenderApplicationContainer.
//
// # Usage Example
//
//	store := config.NewCredentialFile(path)
//	service := influx.NewService(store)
//	err := tui.Run(tui.Deps{
//	    Store:   store,
//	    Checker: service,
//	    Buckets: tui.BucketLister(service),
//	    Backend: "local",
//	})
//
// Logging must be directed to a file while the TUI runs; anything written to
// stdout corrupts the alternate screen.
package tui
