// Package audio plays synthesized announcements using oto/v3. Audio is only
// ever played on explicit request; nothing in this package starts playback
// on its own.
package audio
