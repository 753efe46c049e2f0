// Package process stops the headless browser started for PDF output
// together with the renderer and GPU helpers it forks.
package process
