package pipeline

// RenderOptions configures a render pipeline run.
type RenderOptions struct {
	Output       string
	FPS          float64 // output frame rate override; 0 keeps the source rate
	MapAudio     bool    // carry the source audio into the output
	ShowProgress bool
}

// Report summarizes an analysis run.
type Report struct {
	Input      string
	Duration   float64 // seconds
	Width      int
	Height     int
	FPS        float64
	HasAudio   bool
	Frames     int      // analysis frames
	OnsetCount int      // detected amplitude onsets
	Bands      []string // available frequency band series
	MeanVolume float64  // dB, from the transcoder's volumedetect pass
	MaxVolume  float64  // dB
}
