package cd

// SampleRate is the number of samples per second. All Redbook audio
// CDs use 44.1KHz.
const SampleRate = 44100

// BytesPerSample is 2 bytes, representing signed 16-bit little-endian samples.
const BytesPerSample = 2

// Channels is the number of audio channels in the data. All Redbook audio
// tracks are stereo, interleaved left then right.
const Channels = 2

// FramesPerSecond is the number of frames in one second of audio.
// Cue sheet timecodes are specified in MM:SS:FF, where FF counts these
// 1/75th second frames.
//
// Note that this definition of frame is interchangable with sector.
const FramesPerSecond = 75

// BytesPerFrame is the number of bytes one frame occupies in a raw
// (2352 byte/sector) disc image, for audio and data tracks alike.
const BytesPerFrame = SampleRate * Channels * BytesPerSample / FramesPerSecond

// BytesPerStereoSample is the size of one left/right sample pair.
const BytesPerStereoSample = Channels * BytesPerSample

// MaxTracks is the capacity of a TrackTable. Track numbers at or above
// MaxTracks are dropped by the parser.
const MaxTracks = 32
