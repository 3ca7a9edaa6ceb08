//go:build headless

package main

// Headless builds have no device backends; only null and WAV output remain.
const defaultAudioBackend = "null"
