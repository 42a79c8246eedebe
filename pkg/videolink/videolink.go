// Package videolink splits post content into plain-text and embedded
// video segments so renderers can swap YouTube links for players.
package videolink

import "regexp"

// youtubeRE matches the YouTube URL shapes the board recognizes:
// watch, embed, v, shorts, live, and the youtu.be short form. The
// capture group is the 11-character video id; trailing non-space
// characters (query params, fragments) belong to the link.
var youtubeRE = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|embed/|v/|shorts/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})\S*`)

// Kind discriminates segment types.
type Kind int

const (
	// Text is a run of plain content.
	Text Kind = iota
	// Video is a recognized YouTube link; Value holds the video id.
	Video
)

// Segment is one piece of split content.
type Segment struct {
	Kind  Kind
	Value string
}

// Split breaks content into an ordered list of text and video segments.
// Content with no video links yields a single text segment; empty
// content yields no segments.
func Split(content string) []Segment {
	if content == "" {
		return nil
	}

	matches := youtubeRE.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return []Segment{{Kind: Text, Value: content}}
	}

	var segs []Segment
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			segs = append(segs, Segment{Kind: Text, Value: content[last:start]})
		}
		segs = append(segs, Segment{Kind: Video, Value: content[m[2]:m[3]]})
		last = end
	}
	if last < len(content) {
		segs = append(segs, Segment{Kind: Text, Value: content[last:]})
	}

	return segs
}

// VideoIDs returns the ids of all recognized video links in order.
func VideoIDs(content string) []string {
	var ids []string
	for _, seg := range Split(content) {
		if seg.Kind == Video {
			ids = append(ids, seg.Value)
		}
	}
	return ids
}

// Replace substitutes every recognized video link with the string
// returned by render, leaving surrounding text untouched.
func Replace(content string, render func(videoID string) string) string {
	return youtubeRE.ReplaceAllStringFunc(content, func(match string) string {
		id := youtubeRE.FindStringSubmatch(match)[1]
		return render(id)
	})
}
