// Package playlists holds the pure autoplay sequencing helpers shared by
// playlist consumers. Sequencing state is per viewing session and never
// persisted.
package playlists

// NextIndex advances one position, clamped to the last valid index.
// A non-positive length has no valid index and returns -1.
func NextIndex(current, length int) int {
	return clamp(current+1, length)
}

// PrevIndex steps back one position, clamped to zero.
func PrevIndex(current, length int) int {
	return clamp(current-1, length)
}

// IndexOf returns the position of videoID in the sequence, or -1.
func IndexOf(videoIDs []string, videoID string) int {
	for i, id := range videoIDs {
		if id == videoID {
			return i
		}
	}
	return -1
}

func clamp(i, length int) int {
	if length <= 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i >= length {
		return length - 1
	}
	return i
}
