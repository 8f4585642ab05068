// Package gemini reviews uploaded project files with the Gemini API and
// returns the requested README, debugging and improvement sections.
package gemini
