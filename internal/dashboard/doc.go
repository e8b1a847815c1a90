// Package dashboard implements the socdash client: the poll loops, the view
// model they feed, and the terminal dashboard that renders it.
//
// # Architecture
//
// Data flows one way:
//
//	Poller ──Update──▶ Sink ──▶ Store ──▶ Board / Charts ──▶ View
//	                                ▲
//	Dispatcher ──Refresh(tasks)─────┘
//
//   - Poller runs one ticker per task (stats, logs, alerts, charts). Every
//     fetch gets a per-task sequence number and runs in its own goroutine.
//   - Store is the single source of truth. Apply drops a result whose
//     sequence number is not newer than the last one applied for its task.
//   - Board holds what is on screen: stat values, their pulse animations and
//     the threat simulation cards.
//   - Charts owns the six chart datasets and their rolling windows.
//   - Dispatcher sends response actions and simulations, reports the outcome
//     on the notification Queue and asks the poller for a refresh.
//
// # Event Loop
//
// The TUI is a Bubble Tea program, which follows The Elm Architecture
// (Model-Update-View pattern). Fetch goroutines never touch the model; the
// poller's sink posts each result as an UpdateMsg, and Update applies it to
// the Store on the event loop. Headless callers (snapshot, tests) use the
// Store itself as the sink.
//
// # Animations
//
// Stat pulses and threat cards are explicit state machines
// (idle → active → settling → idle). Each trigger bumps a generation
// counter; a scheduled step carrying an older generation is ignored.
//
// # Keyboard Shortcuts
//
// Navigation and control is handled via keybindings defined in keybindings.go:
//
//	q, Ctrl+C   - Quit
//	r           - Refresh everything
//	tab         - Switch focus between alerts and logs
//	j/k, ↑/↓    - Select alert / scroll logs
//	h/l, ←/→    - Select action
//	Enter       - Run the selected action
//	1-4         - Simulate an attack scenario
//	c           - Enlarge the next chart
//	Esc         - Dismiss notifications / close help
//	?           - Toggle help overlay
package dashboard
