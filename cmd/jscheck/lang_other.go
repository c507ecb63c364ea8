//go:build !windows

package main

func preferredUILanguages() []string {
	return nil
}
