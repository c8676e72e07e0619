// Configures the process-wide logger.
//
// All packages log through log/slog. [Init] installs a charmbracelet/log
// handler as the slog default with terse level prefixes:
//
//	!!! fatal
//	!   error
//	>   warning
//	-   info
//	--  debug
//	--- trace (one more dash per level below debug)
//
// Verbosity counts -v flags: 0 shows warnings, 1 info, 2 debug, and each
// further step enables one more trace level. [Init] may be called again at
// any time, for instance between tests; the previous handler is dropped.
package logging
