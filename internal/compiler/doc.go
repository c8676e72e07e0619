// Package compiler detects C and C++ compilers and derives their flags.
//
// Detection runs "<language.<lang>.compiler> -v" and recognizes Clang and
// GCC from the version banner. Flags are derived from the warning
// categories under "language.<lang>.warnings":
//
//	errors                       turn warnings into errors
//	enable.normal                the compiler's broad warning set
//	enable.extensions            pedantic checks for non-standard extensions
//	enable.compatibility         checks for older language revisions
//	enable.performance.normal    reserved, no flags
//	enable.performance.platform  padding and packing diagnostics
//	enable.system_code           diagnostics in system headers
//
// Disabling every category yields "-w".
package compiler
