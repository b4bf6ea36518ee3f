// Package audiofile loads audio files as stereo float64 buffers and writes
// stereo PCM WAV files.
//
// Supported inputs are WAV and AIFF (integer PCM), MP3 and Ogg Vorbis. Mono
// sources are duplicated to both channels; extra channels of multichannel
// sources are folded onto left and right by parity.
package audiofile
