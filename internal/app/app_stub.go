//go:build !ebiten

package app

// Run reports that the preview window is unavailable in headless builds.
func Run(Viewable, *Config) error { return ErrNoGUI }
