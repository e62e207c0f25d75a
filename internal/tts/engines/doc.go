// Package engines contains the speech engines measure can announce results
// with: gTTS (online), Piper (offline) and a silent mock. Each implements
// ttypes.TTSEngine.
package engines
