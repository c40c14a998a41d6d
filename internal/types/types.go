package types

// VideoReference is the resolved, canonical pointer to a video.
type VideoReference struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// VideoMetadata holds descriptive info about a video.
type VideoMetadata struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Segment represents a timestamped segment of transcription
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the normalized transcription result.
type Transcript struct {
	Full      string    `json:"full"`
	Formatted string    `json:"formatted"`
	Segments  []Segment `json:"segments"`
	Source    string    `json:"source,omitempty"`
}

// Video is the video block embedded in a successful response.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result is the terminal payload of one pipeline invocation.
type Result struct {
	Success    bool       `json:"success"`
	Video      Video      `json:"video"`
	Transcript Transcript `json:"transcript"`
}
