// Provides default file locations and permissions.
//
// The manifest is looked up in the working directory first and then under
// the XDG configuration directories (platform-native equivalents on macOS
// and Windows), using "builder" as the subdirectory name.
package paths
