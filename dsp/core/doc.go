// Package core holds the small numeric helpers and processor options shared
// by the engine, the reverb and the command line tools.
package core
