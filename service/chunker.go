package service

// SplitText slices text into segments of at most size characters, with
// adjacent segments overlapping by overlap characters so a trade record
// spanning a boundary is never lost. Operates on runes so multi-byte
// characters are not cut in half.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	if step <= 0 {
		step = size
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ChunkPages splits every page into bounded segments, preserving page order
// and within-page order.
func ChunkPages(pages []string, size, overlap int) []string {
	var chunks []string
	for _, page := range pages {
		chunks = append(chunks, SplitText(page, size, overlap)...)
	}
	return chunks
}
