// Package cli implements the socdash command-line interface.
//
// Each Cobra command parses its arguments and delegates to a plain function
// that does the work, so the logic can be tested without going through
// cobra. Client-side commands share a session: the resolved config, a
// logger, a Prometheus registry and an API client.
//
// # Command Structure
//
//	socdash watch                 - Live dashboard (TUI)
//	socdash chart <name>          - One chart full screen
//	socdash snapshot              - Fetch once, print text/json/yaml
//	socdash simulate <scenario>   - Replay an attack on the backend
//	socdash action <name> <id>    - Run a response action on an alert
//	socdash serve                 - Bundled demo backend
//	socdash init                  - Create .socdash.yaml
//	socdash config [show|set]     - Inspect or edit config
//	socdash version               - Build info
//
// # Logging
//
// While the dashboard runs it owns the terminal, so logs only go anywhere
// when --log-file is set (JSON, via zap). Other commands log to stderr with
// --verbose.
//
// # Errors
//
// Commands return structured errors from internal/errors. Execute prints
// them and exits 2 for config problems and 1 otherwise.
package cli
