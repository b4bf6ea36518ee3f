//go:build headless

package main

import "errors"

func preview(string, renderOptions) error {
	return errors.New("playback is not available in headless builds")
}
