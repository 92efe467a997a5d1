package ump

// Stream is a four-word MT-F (UMP Stream) message. Like Data128, no
// component here decodes its sub-messages (endpoint discovery, function
// block info, and so on) — it is only routed and, on the unknown path,
// preserved verbatim.
type Stream struct {
	words [4]Word
}

func (s Stream) Words() [4]Word { return s.words }

// StreamFromWords parses a raw MT-F word quadruple into a Stream view.
func StreamFromWords(words [4]Word) Stream { return Stream{words: words} }
