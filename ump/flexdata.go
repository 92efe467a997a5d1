package ump

// FlexData is a four-word MT-D (Flex Data) message. Its sub-messages
// (tempo, time signature, metronome, lyric, and so on) are not decoded
// here for the same reason as Stream and Data128 — nothing in
// bytestream or protocol produces or consumes them — but its group
// field is exposed for a caller that routes by group. For flex-data
// common-notification messages the field carries no group (see Group).
type FlexData struct {
	words [4]Word
}

func (f FlexData) WithGroup(g uint8) FlexData { f.words[0] = WithGroup(f.words[0], g); return f }
func (f FlexData) Group() uint8               { return Group(f.words[0]) }
func (f FlexData) Words() [4]Word             { return f.words }

// FlexDataFromWords parses a raw MT-D word quadruple into a FlexData
// view.
func FlexDataFromWords(words [4]Word) FlexData { return FlexData{words: words} }
