package chunking

import (
	"fmt"
	"strings"

	"github.com/avezina/paperlens/internal/core/domain"
)

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split windows the text into overlapping chunks. A window that does not
// reach the end of the text is cut after the last paragraph break inside
// its trailing overlap region, else after the last sentence end there,
// else exactly at ChunkSize. Offsets are rune positions into text.
func (s *Splitter) Split(text string) []domain.Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, n/s.ChunkSize+1)
	start := 0
	for start < n {
		end := start + s.ChunkSize
		if end > n {
			end = n
		}
		if end < n {
			lo := start + s.ChunkSize - s.Overlap
			if brk := lastIndexWithin(runes, "\n\n", lo, end); brk > start {
				end = brk + 2
			} else {
				brk = lastIndexWithin(runes, ". ", lo, end)
				if p := lastIndexWithin(runes, "? ", lo, end); p > brk {
					brk = p
				}
				if p := lastIndexWithin(runes, "! ", lo, end); p > brk {
					brk = p
				}
				if brk > start {
					end = brk + 2
				}
			}
		}

		content := strings.TrimSpace(string(runes[start:end]))
		chunks = append(chunks, domain.Chunk{
			Title:    chunkTitle(len(chunks)+1, content),
			Content:  content,
			StartPos: start,
			EndPos:   end,
		})

		if end >= n {
			break
		}
		next := end - s.Overlap
		if next <= start {
			// Guarantees forward progress when overlap nearly equals
			// the window size.
			next = end
		}
		start = next
	}
	return chunks
}

func chunkTitle(ordinal int, content string) string {
	first := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	} else if r := []rune(content); len(r) > 50 {
		first = string(r[:50])
	}
	return fmt.Sprintf("Chunk %d: %s...", ordinal, first)
}

// lastIndexWithin reports the highest rune position p in [lo, hi-len(pattern)]
// where pattern starts, or -1.
func lastIndexWithin(runes []rune, pattern string, lo, hi int) int {
	pat := []rune(pattern)
	if lo < 0 {
		lo = 0
	}
	for p := hi - len(pat); p >= lo; p-- {
		match := true
		for i := range pat {
			if runes[p+i] != pat[i] {
				match = false
				break
			}
		}
		if match {
			return p
		}
	}
	return -1
}
